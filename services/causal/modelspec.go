// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package causal

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/CausalFOSS/services/causal/model"
	"github.com/AleutianAI/CausalFOSS/services/causal/scm"
)

// ModelSpec is the YAML/JSON schema for a causal model file.
//
// A spec always describes a graph (nodes + edges). When every node
// also carries an equation and a noise definition, the spec describes
// a full structural causal model and sampling operations become
// available.
//
// Example:
//
//	name: chain
//	nodes:
//	  - name: a
//	    equation: {type: linear, offset: 1}
//	    noise: {type: zero}
//	  - name: b
//	    equation: {type: linear, offset: 2, weights: {a: 1}}
//	    noise: {type: zero}
//	edges:
//	  - {from: a, to: b}
type ModelSpec struct {
	// Name identifies the model. Required.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Nodes lists the variables of the model. Required, non-empty.
	Nodes []NodeSpec `yaml:"nodes" json:"nodes" validate:"required,min=1,dive"`

	// Edges lists the directed edges of the graph.
	Edges []EdgeSpec `yaml:"edges" json:"edges" validate:"dive"`
}

// NodeSpec describes one variable of a model.
type NodeSpec struct {
	// Name is the variable name. Required.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Equation is the structural mechanism. Optional; either all
	// nodes carry one or none do.
	Equation *EquationSpec `yaml:"equation,omitempty" json:"equation,omitempty"`

	// Noise is the exogenous noise distribution. Required whenever
	// Equation is set.
	Noise *NoiseSpec `yaml:"noise,omitempty" json:"noise,omitempty"`
}

// EdgeSpec describes one directed edge.
type EdgeSpec struct {
	From string `yaml:"from" json:"from" validate:"required"`
	To   string `yaml:"to" json:"to" validate:"required"`
}

// EquationSpec describes a structural mechanism.
type EquationSpec struct {
	// Type selects the mechanism: "linear", "logistic", or "constant".
	Type string `yaml:"type" json:"type" validate:"required,oneof=linear logistic constant"`

	// Offset is the intercept for linear and logistic mechanisms.
	Offset float64 `yaml:"offset" json:"offset"`

	// Value is the fixed output of a constant mechanism.
	Value float64 `yaml:"value" json:"value"`

	// Weights maps parent names to coefficients.
	Weights map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty"`
}

// NoiseSpec describes an exogenous noise distribution.
type NoiseSpec struct {
	// Type selects the sampler: "normal", "uniform", "bernoulli", or "zero".
	Type string `yaml:"type" json:"type" validate:"required,oneof=normal uniform bernoulli zero"`

	// Mu and Sigma parameterize a normal distribution.
	Mu    float64 `yaml:"mu" json:"mu"`
	Sigma float64 `yaml:"sigma" json:"sigma" validate:"gte=0"`

	// Min and Max parameterize a uniform distribution.
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`

	// P parameterizes a Bernoulli distribution.
	P float64 `yaml:"p" json:"p" validate:"gte=0,lte=1"`
}

// specValidator validates model specs against their struct tags.
var specValidator = validator.New()

// ParseModelSpec parses and validates a YAML model spec.
//
// Description:
//
//	Unmarshals the document, checks the struct tags, and verifies that
//	equations are declared for either all nodes or none.
//
// Inputs:
//
//	data - Raw YAML (or JSON, which YAML subsumes) document.
//
// Outputs:
//
//	*ModelSpec - The validated spec.
//	error - Non-nil on malformed YAML, failed validation, or partial
//	        mechanism declarations.
func ParseModelSpec(data []byte) (*ModelSpec, error) {
	var spec ModelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse model spec: %w", err)
	}

	if err := specValidator.Struct(&spec); err != nil {
		return nil, fmt.Errorf("validate model spec: %w", err)
	}

	withEquations := 0
	for _, n := range spec.Nodes {
		if n.Equation != nil {
			withEquations++
		}
	}
	if withEquations != 0 && withEquations != len(spec.Nodes) {
		return nil, fmt.Errorf("%w: %d of %d nodes have equations",
			ErrPartialMechanisms, withEquations, len(spec.Nodes))
	}

	return &spec, nil
}

// LoadModelFile reads and parses a model spec from disk.
func LoadModelFile(path string) (*ModelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return ParseModelSpec(data)
}

// HasMechanisms reports whether the spec defines structural equations.
func (s *ModelSpec) HasMechanisms() bool {
	return len(s.Nodes) > 0 && s.Nodes[0].Equation != nil
}

// ToCGM builds the causal graphical model the spec describes.
func (s *ModelSpec) ToCGM() (*model.CGM, error) {
	nodes := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = n.Name
	}

	edges := make([]model.Edge, len(s.Edges))
	for i, e := range s.Edges {
		edges[i] = model.Edge{From: e.From, To: e.To}
	}

	return model.New(nodes, edges)
}

// ToSCM builds the structural causal model the spec describes.
//
// Description:
//
//	Constructs the graph from the node and edge lists and attaches one
//	mechanism per node. The scm package verifies that each equation's
//	parents match the node's graph parents.
//
// Outputs:
//
//	*scm.SCM - The constructed model.
//	error - ErrNoMechanisms when the spec has no equations, or any
//	        construction error from the graph or scm packages.
func (s *ModelSpec) ToSCM() (*scm.SCM, error) {
	if !s.HasMechanisms() {
		return nil, ErrNoMechanisms
	}

	cgm, err := s.ToCGM()
	if err != nil {
		return nil, err
	}

	defs := make(map[string]scm.Definition, len(s.Nodes))
	for _, n := range s.Nodes {
		eq, err := n.Equation.build()
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.Name, err)
		}

		if n.Noise == nil {
			return nil, fmt.Errorf("node %s: %w", n.Name, scm.ErrNilSampler)
		}
		noise, err := n.Noise.build()
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.Name, err)
		}

		defs[n.Name] = scm.Definition{Equation: eq, Noise: noise}
	}

	return scm.New(cgm, defs)
}

// build constructs the equation the spec describes.
func (e *EquationSpec) build() (scm.Equation, error) {
	switch e.Type {
	case "linear":
		return scm.Linear(e.Offset, e.Weights), nil
	case "logistic":
		return scm.Logistic(e.Offset, e.Weights), nil
	case "constant":
		return scm.Constant(e.Value), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEquationType, e.Type)
	}
}

// build constructs the sampler the spec describes.
func (n *NoiseSpec) build() (scm.Sampler, error) {
	switch n.Type {
	case "normal":
		return scm.Normal(n.Mu, n.Sigma), nil
	case "uniform":
		return scm.Uniform(n.Min, n.Max), nil
	case "bernoulli":
		return scm.Bernoulli(n.P), nil
	case "zero":
		return scm.Zero(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNoiseType, n.Type)
	}
}

// Intervened returns the spec of the mutilated model do(iv).
//
// Description:
//
//	Replaces each intervened node's mechanism with a constant pinned
//	to the intervention value, switches its noise to zero, and drops
//	its inbound edges. The receiver is not modified. Callers validate
//	the intervention against the built SCM first; unknown nodes here
//	are silently ignored.
func (s *ModelSpec) Intervened(name string, iv map[string]float64) *ModelSpec {
	out := &ModelSpec{Name: name}

	hasMechanisms := s.HasMechanisms()
	for _, n := range s.Nodes {
		if value, ok := iv[n.Name]; ok && hasMechanisms {
			out.Nodes = append(out.Nodes, NodeSpec{
				Name:     n.Name,
				Equation: &EquationSpec{Type: "constant", Value: value},
				Noise:    &NoiseSpec{Type: "zero"},
			})
			continue
		}
		out.Nodes = append(out.Nodes, n)
	}

	for _, e := range s.Edges {
		if _, ok := iv[e.To]; ok {
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	return out
}
