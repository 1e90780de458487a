// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scm

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws independent noise values from an injected random
// stream. Randomness never comes from ambient global state: the
// source is passed in per draw, so sampling is reproducible under a
// fixed seed and safe to run concurrently with disjoint sources.
type Sampler interface {
	// Sample returns one noise draw from the given source.
	Sample(src rand.Source) float64
}

// normalSampler draws from N(mu, sigma).
type normalSampler struct {
	mu    float64
	sigma float64
}

// Normal returns a Gaussian noise sampler with the given mean and
// standard deviation.
func Normal(mu, sigma float64) Sampler {
	return &normalSampler{mu: mu, sigma: sigma}
}

// Sample draws one Gaussian value.
func (s *normalSampler) Sample(src rand.Source) float64 {
	return distuv.Normal{Mu: s.mu, Sigma: s.sigma, Src: src}.Rand()
}

// uniformSampler draws from U[lo, hi).
type uniformSampler struct {
	lo float64
	hi float64
}

// Uniform returns a uniform noise sampler on [lo, hi). Uniform(0, 1)
// is the expected companion of Logistic mechanisms.
func Uniform(lo, hi float64) Sampler {
	return &uniformSampler{lo: lo, hi: hi}
}

// Sample draws one uniform value.
func (s *uniformSampler) Sample(src rand.Source) float64 {
	return distuv.Uniform{Min: s.lo, Max: s.hi, Src: src}.Rand()
}

// bernoulliSampler draws 0 or 1 with success probability p.
type bernoulliSampler struct {
	p float64
}

// Bernoulli returns a coin-flip noise sampler with success
// probability p.
func Bernoulli(p float64) Sampler {
	return &bernoulliSampler{p: p}
}

// Sample draws one Bernoulli value.
func (s *bernoulliSampler) Sample(src rand.Source) float64 {
	return distuv.Bernoulli{P: s.p, Src: src}.Rand()
}

// zeroSampler always returns zero.
type zeroSampler struct{}

// Zero returns the degenerate noise sampler that always yields 0.
// Used for deterministic mechanisms and intervened variables.
func Zero() Sampler {
	return zeroSampler{}
}

// Sample returns 0 without consuming the source.
func (zeroSampler) Sample(_ rand.Source) float64 {
	return 0
}
