// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Fixtures
// =============================================================================

// createSprinkler builds the classic sprinkler DAG:
//
//	        season
//	       /      \
//	      v        v
//	    rain    sprinkler
//	       \      /
//	        v    v
//	         wet
//	          |
//	          v
//	      slippery
func createSprinkler(t *testing.T) *Graph {
	t.Helper()

	g, err := NewBuilder().
		AddNodes("season", "rain", "sprinkler", "wet", "slippery").
		AddEdge("season", "rain").
		AddEdge("season", "sprinkler").
		AddEdge("rain", "wet").
		AddEdge("sprinkler", "wet").
		AddEdge("wet", "slippery").
		Build()
	require.NoError(t, err)
	return g
}

// createChain builds a -> b -> c.
func createChain(t *testing.T) *Graph {
	t.Helper()

	g, err := NewBuilder().
		AddNodes("a", "b", "c").
		AddEdge("a", "b").
		AddEdge("b", "c").
		Build()
	require.NoError(t, err)
	return g
}

// =============================================================================
// Builder Tests
// =============================================================================

func TestBuilder_Build(t *testing.T) {
	g := createSprinkler(t)

	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, 5, g.EdgeCount())
	assert.Equal(t, []string{"rain", "season", "slippery", "sprinkler", "wet"}, g.Nodes())
	assert.True(t, g.HasNode("wet"))
	assert.False(t, g.HasNode("snow"))
	assert.False(t, g.HasCycle())
}

func TestBuilder_EmptyGraph(t *testing.T) {
	g, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, 0, g.NodeCount())
	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.TopologicalOrder())
}

func TestBuilder_DuplicateNode(t *testing.T) {
	_, err := NewBuilder().
		AddNode("a").
		AddNode("a").
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateNode)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "a", nodeErr.Node)
}

func TestBuilder_EmptyNodeName(t *testing.T) {
	_, err := NewBuilder().AddNode("").Build()
	assert.ErrorIs(t, err, ErrEmptyNodeName)
}

func TestBuilder_UnknownEdgeEndpoint(t *testing.T) {
	_, err := NewBuilder().
		AddNode("a").
		AddEdge("a", "ghost").
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "ghost", nodeErr.Node)
}

func TestBuilder_EdgeBeforeNode(t *testing.T) {
	// Declaration order must not matter within a build.
	g, err := NewBuilder().
		AddEdge("a", "b").
		AddNode("b").
		AddNode("a").
		Build()

	require.NoError(t, err)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuilder_SelfLoop(t *testing.T) {
	_, err := NewBuilder().
		AddNode("a").
		AddEdge("a", "a").
		Build()

	assert.ErrorIs(t, err, ErrSelfLoop)
}

func TestBuilder_DuplicateEdge(t *testing.T) {
	_, err := NewBuilder().
		AddNodes("a", "b").
		AddEdge("a", "b").
		AddEdge("a", "b").
		Build()

	assert.ErrorIs(t, err, ErrDuplicateEdge)
}

func TestBuilder_CycleDetected(t *testing.T) {
	_, err := NewBuilder().
		AddNodes("a", "b", "c").
		AddEdge("a", "b").
		AddEdge("b", "c").
		AddEdge("c", "a").
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	// The path closes on its starting node.
	require.GreaterOrEqual(t, len(cycleErr.Path), 4)
	assert.Equal(t, cycleErr.Path[0], cycleErr.Path[len(cycleErr.Path)-1])
}

func TestBuilder_MaxNodes(t *testing.T) {
	_, err := NewBuilder(WithMaxNodes(2)).
		AddNodes("a", "b", "c").
		Build()

	assert.ErrorIs(t, err, ErrMaxNodesExceeded)
}

// =============================================================================
// Adjacency Tests
// =============================================================================

func TestGraph_ParentsChildren(t *testing.T) {
	g := createSprinkler(t)

	parents, err := g.Parents("wet")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "sprinkler"}, parents)

	children, err := g.Children("season")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "sprinkler"}, children)

	roots, err := g.Parents("season")
	require.NoError(t, err)
	assert.Empty(t, roots)

	_, err = g.Parents("snow")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGraph_Edges(t *testing.T) {
	g := createChain(t)

	assert.Equal(t, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
	}, g.Edges())
	assert.Equal(t, "a -> b", Edge{From: "a", To: "b"}.String())
}

// =============================================================================
// Traversal Tests
// =============================================================================

func TestGraph_Ancestors(t *testing.T) {
	g := createSprinkler(t)

	anc, err := g.Ancestors("slippery")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "season", "sprinkler", "wet"}, anc)

	anc, err = g.Ancestors("season")
	require.NoError(t, err)
	assert.Empty(t, anc)

	// Union semantics: ancestors of either input.
	anc, err = g.Ancestors("rain", "sprinkler")
	require.NoError(t, err)
	assert.Equal(t, []string{"season"}, anc)

	_, err = g.Ancestors("snow")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGraph_AncestorsIncludesSeedWhenReached(t *testing.T) {
	g := createChain(t)

	// b is an ancestor of c, so it stays even though it is a seed.
	anc, err := g.Ancestors("b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, anc)
}

func TestGraph_AncestralClosure(t *testing.T) {
	g := createSprinkler(t)

	closure, err := g.AncestralClosure("wet")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "season", "sprinkler", "wet"}, closure)

	closure, err = g.AncestralClosure("season")
	require.NoError(t, err)
	assert.Equal(t, []string{"season"}, closure)
}

func TestGraph_Descendants(t *testing.T) {
	g := createSprinkler(t)

	desc, err := g.Descendants("season")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "slippery", "sprinkler", "wet"}, desc)

	desc, err = g.Descendants("slippery")
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestGraph_TopologicalOrder(t *testing.T) {
	g := createSprinkler(t)

	order := g.TopologicalOrder()
	require.Len(t, order, 5)

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	for _, e := range g.Edges() {
		assert.Less(t, pos[e.From], pos[e.To], "edge %s must point forward", e)
	}

	// Deterministic: repeated calls agree.
	assert.Equal(t, order, g.TopologicalOrder())
}

func TestGraph_TopologicalOrderTieBreak(t *testing.T) {
	// No edges: the order degenerates to sorted names.
	g, err := NewBuilder().AddNodes("c", "a", "b").Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, g.TopologicalOrder())
}

// =============================================================================
// Path Tests
// =============================================================================

func TestGraph_SimplePaths(t *testing.T) {
	g := createSprinkler(t)

	paths, err := g.SimplePaths("season", "slippery")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"season", "rain", "wet", "slippery"},
		{"season", "sprinkler", "wet", "slippery"},
	}, paths)

	// No directed path against the arrows.
	paths, err = g.SimplePaths("slippery", "season")
	require.NoError(t, err)
	assert.Empty(t, paths)

	// Trivial path.
	paths, err = g.SimplePaths("wet", "wet")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"wet"}}, paths)

	_, err = g.SimplePaths("season", "snow")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGraph_SimplePathsMaxPaths(t *testing.T) {
	g := createSprinkler(t)

	paths, err := g.SimplePaths("season", "slippery", WithMaxPaths(1))
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestGraph_UndirectedSimplePaths(t *testing.T) {
	g := createSprinkler(t)

	paths, err := g.UndirectedSimplePaths("rain", "sprinkler")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"rain", "season", "sprinkler"},
		{"rain", "wet", "sprinkler"},
	}, paths)
}

// =============================================================================
// Derivation Tests
// =============================================================================

func TestGraph_Induced(t *testing.T) {
	g := createSprinkler(t)

	sub, err := g.Induced("season", "rain", "wet")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain", "season", "wet"}, sub.Nodes())
	assert.Equal(t, []Edge{
		{From: "rain", To: "wet"},
		{From: "season", To: "rain"},
	}, sub.Edges())

	// Receiver untouched.
	assert.Equal(t, 5, g.NodeCount())

	_, err = g.Induced("snow")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGraph_WithoutEdgesFrom(t *testing.T) {
	g := createSprinkler(t)

	cut, err := g.WithoutEdgesFrom("season")
	require.NoError(t, err)
	assert.Equal(t, 3, cut.EdgeCount())

	children, err := cut.Children("season")
	require.NoError(t, err)
	assert.Empty(t, children)

	// All nodes survive.
	assert.Equal(t, g.Nodes(), cut.Nodes())
}

func TestGraph_WithoutEdgesInto(t *testing.T) {
	g := createSprinkler(t)

	cut, err := g.WithoutEdgesInto("wet")
	require.NoError(t, err)
	assert.Equal(t, 3, cut.EdgeCount())

	parents, err := cut.Parents("wet")
	require.NoError(t, err)
	assert.Empty(t, parents)

	_, err = g.WithoutEdgesInto("snow")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

// =============================================================================
// Error Type Tests
// =============================================================================

func TestNodeError_Unwrap(t *testing.T) {
	err := NewNodeError("x", ErrNodeNotFound)

	assert.Equal(t, `node "x": node not found`, err.Error())
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestCycleError_Format(t *testing.T) {
	err := NewCycleError([]string{"a", "b", "a"})

	assert.Equal(t, "cycle detected: a -> b -> a", err.Error())
	assert.True(t, errors.Is(err, ErrCycleDetected))
}
