package graph

import (
	"testing"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTask(t *testing.T, g *TaskGraph, title string) *domain.TaskNode {
	t.Helper()
	return g.AddNode(&domain.TaskNode{Title: title, Kind: domain.KindTask, DurationDays: 1})
}

func TestAddNode_AllocatesMonotonicIDs(t *testing.T) {
	g := New()

	a := addTask(t, g, "a")
	b := addTask(t, g, "b")

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	// Removing a node must not free its id for reuse.
	g.RemoveNode(b.ID)
	c := addTask(t, g, "c")
	assert.Equal(t, int64(3), c.ID)
}

func TestLoad_RestoresIDCounters(t *testing.T) {
	nodes := []*domain.TaskNode{
		{ID: 4, Title: "survivor", Kind: domain.KindTask},
	}
	g := Load(nodes, nil, 9, 5)

	n := addTask(t, g, "next")
	assert.Equal(t, int64(9), n.ID, "counter from the plan wins over max existing id")

	e, err := g.AddEdge(&domain.DependencyEdge{From: 4, To: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.ID)
}

func TestAddEdge_RejectsSelfLoopAndUnknownEndpoints(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")

	_, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: a.ID})
	assert.ErrorIs(t, err, ErrSelfDependency)

	_, err = g.AddEdge(&domain.DependencyEdge{From: a.ID, To: 99})
	assert.ErrorIs(t, err, ErrUnknownEndpoint)

	_, err = g.AddEdge(&domain.DependencyEdge{From: 99, To: a.ID})
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestAddEdge_DefaultsToFinishToStart(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")
	b := addTask(t, g, "b")

	e, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.FinishToStart, e.Type)
}

func TestRemoveNode_CascadesEdgesAndScrubsMembership(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")
	b := addTask(t, g, "b")
	c := addTask(t, g, "c")

	_, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID})
	require.NoError(t, err)
	keep, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: c.ID})
	require.NoError(t, err)

	group := g.AddNode(&domain.TaskNode{
		Title:     "grp",
		Kind:      domain.KindGroup,
		MemberIDs: []int64{b.ID, c.ID},
	})
	b.ParentGroupID = &group.ID
	c.ParentGroupID = &group.ID

	g.RemoveNode(b.ID)

	assert.Nil(t, g.Node(b.ID))
	assert.Len(t, g.Edges(), 1)
	assert.Equal(t, keep.ID, g.Edges()[0].ID)
	assert.Equal(t, []int64{c.ID}, group.MemberIDs, "member list must not dangle")

	// Removing the group clears the surviving member's back-reference.
	g.RemoveNode(group.ID)
	assert.Nil(t, c.ParentGroupID)
}

func TestRemoveNode_ScrubsStoredOriginalEndpoints(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")
	b := addTask(t, g, "b")
	out := addTask(t, g, "out")

	group := g.AddNode(&domain.TaskNode{
		Title:     "grp",
		Kind:      domain.KindGroup,
		MemberIDs: []int64{a.ID, b.ID},
		Collapsed: true,
	})
	a.ParentGroupID = &group.ID
	b.ParentGroupID = &group.ID

	// Boundary edge remapped onto the collapsed group, original stored.
	edge, err := g.AddEdge(&domain.DependencyEdge{From: out.ID, To: group.ID})
	require.NoError(t, err)
	orig := a.ID
	edge.OriginalTo = &orig

	g.RemoveNode(a.ID)

	require.NotNil(t, g.Edge(edge.ID), "edge to the group survives")
	assert.Nil(t, edge.OriginalTo, "stored original must not name a removed node")
}

func TestRemoveNode_GroupUnhidesItsInternalEdges(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")
	b := addTask(t, g, "b")

	group := g.AddNode(&domain.TaskNode{
		Title:     "grp",
		Kind:      domain.KindGroup,
		MemberIDs: []int64{a.ID, b.ID},
		Collapsed: true,
	})
	a.ParentGroupID = &group.ID
	b.ParentGroupID = &group.ID

	internal, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID, HiddenInternal: true})
	require.NoError(t, err)

	g.RemoveNode(group.ID)

	require.NotNil(t, g.Edge(internal.ID))
	assert.False(t, internal.HiddenInternal, "no group is left to expand the edge")
	assert.Nil(t, a.ParentGroupID)
	assert.Nil(t, b.ParentGroupID)
}

func TestRemoveNode_UnknownIDIsNoOp(t *testing.T) {
	g := New()
	addTask(t, g, "a")
	before := g.Revision()

	g.RemoveNode(42)

	assert.Len(t, g.Nodes(), 1)
	assert.Equal(t, before, g.Revision())
}

func TestRemoveEdgeBetween_RemovesAllMatching(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")
	b := addTask(t, g, "b")

	_, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID, Type: domain.FinishToStart})
	require.NoError(t, err)
	_, err = g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID, Type: domain.StartToStart})
	require.NoError(t, err)
	back, err := g.AddEdge(&domain.DependencyEdge{From: b.ID, To: a.ID})
	require.NoError(t, err)

	g.RemoveEdgeBetween(a.ID, b.ID)

	require.Len(t, g.Edges(), 1)
	assert.Equal(t, back.ID, g.Edges()[0].ID, "reverse edge survives")
}

func TestSuccessorsPredecessors_InsertionOrder(t *testing.T) {
	g := New()
	a := addTask(t, g, "a")
	b := addTask(t, g, "b")
	c := addTask(t, g, "c")

	e1, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID})
	require.NoError(t, err)
	e2, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: c.ID})
	require.NoError(t, err)

	succ := g.Successors(a.ID)
	require.Len(t, succ, 2)
	assert.Equal(t, e1.ID, succ[0].ID)
	assert.Equal(t, e2.ID, succ[1].ID)

	pred := g.Predecessors(c.ID)
	require.Len(t, pred, 1)
	assert.Equal(t, e2.ID, pred[0].ID)
}

func TestRevision_BumpsOnEveryMutation(t *testing.T) {
	g := New()
	r0 := g.Revision()

	a := addTask(t, g, "a")
	assert.Greater(t, g.Revision(), r0)

	b := addTask(t, g, "b")
	r1 := g.Revision()
	_, err := g.AddEdge(&domain.DependencyEdge{From: a.ID, To: b.ID})
	require.NoError(t, err)
	assert.Greater(t, g.Revision(), r1)

	r2 := g.Revision()
	g.Touch()
	assert.Greater(t, g.Revision(), r2)
}
