// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package examples provides the canonical causal systems used by
// tests, CLI demos, and service smoke checks.
package examples

import (
	"github.com/AleutianAI/CausalFOSS/services/causal/model"
	"github.com/AleutianAI/CausalFOSS/services/causal/scm"
)

// Chain returns x1 -> x2 -> x3.
func Chain() *model.CGM {
	return mustCGM(
		[]string{"x1", "x2", "x3"},
		[]model.Edge{{From: "x1", To: "x2"}, {From: "x2", To: "x3"}},
	)
}

// Collider returns x1 -> x2 <- x3.
func Collider() *model.CGM {
	return mustCGM(
		[]string{"x1", "x2", "x3"},
		[]model.Edge{{From: "x1", To: "x2"}, {From: "x3", To: "x2"}},
	)
}

// Fork returns x1 <- x2 -> x3.
func Fork() *model.CGM {
	return mustCGM(
		[]string{"x1", "x2", "x3"},
		[]model.Edge{{From: "x2", To: "x1"}, {From: "x2", To: "x3"}},
	)
}

// PathOne returns the five-variable chain x1 -> x2 -> x3 -> x4 -> x5.
func PathOne() *model.CGM {
	return mustCGM(
		[]string{"x1", "x2", "x3", "x4", "x5"},
		[]model.Edge{
			{From: "x1", To: "x2"},
			{From: "x2", To: "x3"},
			{From: "x3", To: "x4"},
			{From: "x4", To: "x5"},
		},
	)
}

// Sprinkler returns the textbook lawn-sprinkler network:
// season -> rain -> wet -> slippery, season -> sprinkler -> wet.
func Sprinkler() *model.CGM {
	return mustCGM(
		[]string{"season", "rain", "sprinkler", "wet", "slippery"},
		[]model.Edge{
			{From: "season", To: "rain"},
			{From: "season", To: "sprinkler"},
			{From: "rain", To: "wet"},
			{From: "sprinkler", To: "wet"},
			{From: "wet", To: "slippery"},
		},
	)
}

// SimpleConfounded returns x -> y with the confounder z -> x, z -> y.
// The only valid backdoor adjustment set for (x, y) is {z}.
func SimpleConfounded() *model.CGM {
	return mustCGM(
		[]string{"x", "y", "z"},
		[]model.Edge{
			{From: "z", To: "x"},
			{From: "z", To: "y"},
			{From: "x", To: "y"},
		},
	)
}

// ChainSCM returns the deterministic model a = 1, b = a + 2,
// c = b * 2, so one sample yields a=1, b=3, c=6, and do(a=5) yields
// c=14.
func ChainSCM() *scm.SCM {
	return mustSCM(map[string]scm.Definition{
		"a": {Equation: scm.Linear(1, nil), Noise: scm.Zero()},
		"b": {Equation: scm.Linear(2, map[string]float64{"a": 1}), Noise: scm.Zero()},
		"c": {Equation: scm.Linear(0, map[string]float64{"b": 2}), Noise: scm.Zero()},
	})
}

// WageSCM returns a small mixed linear/logistic model of education and
// wages: ability and background are Gaussian roots, a logistic
// mechanism decides college attendance, and wage is linear in college
// and ability.
func WageSCM() *scm.SCM {
	return mustSCM(map[string]scm.Definition{
		"ability":    {Equation: scm.Linear(0, nil), Noise: scm.Normal(0, 1)},
		"background": {Equation: scm.Linear(0, nil), Noise: scm.Normal(0, 1)},
		"college": {
			Equation: scm.Logistic(-0.5, map[string]float64{"ability": 1.2, "background": 0.8}),
			Noise:    scm.Uniform(0, 1),
		},
		"wage": {
			Equation: scm.Linear(30, map[string]float64{"college": 12, "ability": 5}),
			Noise:    scm.Normal(0, 2),
		},
	})
}

// mustCGM builds a fixture graph that is valid by construction.
func mustCGM(nodes []string, edges []model.Edge) *model.CGM {
	m, err := model.New(nodes, edges)
	if err != nil {
		panic("examples: invalid fixture: " + err.Error())
	}
	return m
}

// mustSCM builds a fixture model that is valid by construction.
func mustSCM(defs map[string]scm.Definition) *scm.SCM {
	s, err := scm.FromDefinitions(defs)
	if err != nil {
		panic("examples: invalid fixture: " + err.Error())
	}
	return s
}
