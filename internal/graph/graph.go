package graph

import (
	"errors"

	"github.com/okerlund/planfold/internal/domain"
)

var (
	// ErrSelfDependency is returned when an edge's endpoints are the same node.
	ErrSelfDependency = errors.New("dependency endpoints must differ")
	// ErrUnknownEndpoint is returned when an edge references a missing node.
	ErrUnknownEndpoint = errors.New("dependency endpoint does not exist")
)

// TaskGraph is the in-memory node/edge model. Nodes and edges are held in
// id-indexed maps for O(1) lookup, with insertion-order slices alongside so
// iteration stays deterministic. Ids grow monotonically and are never reused
// for the life of the graph.
//
// TaskGraph owns no algorithms; grouping, scheduling and row layout live in
// their own packages and mutate the graph through these primitives.
type TaskGraph struct {
	nodes     map[int64]*domain.TaskNode
	edges     map[int64]*domain.DependencyEdge
	nodeOrder []int64
	edgeOrder []int64

	nextNodeID int64
	nextEdgeID int64
	revision   uint64
}

// New creates an empty graph with id allocation starting at 1.
func New() *TaskGraph {
	return &TaskGraph{
		nodes:      make(map[int64]*domain.TaskNode),
		edges:      make(map[int64]*domain.DependencyEdge),
		nextNodeID: 1,
		nextEdgeID: 1,
	}
}

// Load rebuilds a graph from persisted nodes and edges. The id counters are
// restored from the plan so deleted ids stay retired.
func Load(nodes []*domain.TaskNode, edges []*domain.DependencyEdge, nextNodeID, nextEdgeID int64) *TaskGraph {
	g := New()
	for _, n := range nodes {
		g.nodes[n.ID] = n
		g.nodeOrder = append(g.nodeOrder, n.ID)
	}
	for _, e := range edges {
		g.edges[e.ID] = e
		g.edgeOrder = append(g.edgeOrder, e.ID)
	}
	if nextNodeID > g.nextNodeID {
		g.nextNodeID = nextNodeID
	}
	if nextEdgeID > g.nextEdgeID {
		g.nextEdgeID = nextEdgeID
	}
	return g
}

// Revision returns a counter bumped by every mutation. The leveling runner
// uses it to discard solver results that arrive after the graph has changed.
func (g *TaskGraph) Revision() uint64 { return g.revision }

func (g *TaskGraph) touch() { g.revision++ }

// NextNodeID returns the id the next added node will receive.
func (g *TaskGraph) NextNodeID() int64 { return g.nextNodeID }

// NextEdgeID returns the id the next added edge will receive.
func (g *TaskGraph) NextEdgeID() int64 { return g.nextEdgeID }

// AddNode inserts a node, allocating its id when unset.
func (g *TaskGraph) AddNode(n *domain.TaskNode) *domain.TaskNode {
	if n.ID == 0 {
		n.ID = g.nextNodeID
	}
	if n.ID >= g.nextNodeID {
		g.nextNodeID = n.ID + 1
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	g.touch()
	return n
}

// RemoveNode deletes the node and every edge incident to it. Membership
// references are scrubbed so no parentGroupId or member list dangles: the
// node is removed from its parent group's member list, and when the node is
// itself a group its members' back-references are cleared and the edges it
// had hidden between them are un-hidden. Remapped edges whose stored
// original endpoint names the removed node lose that original, so a later
// group expansion falls back to reattaching them instead of restoring a
// dead id. A missing id is a silent no-op.
func (g *TaskGraph) RemoveNode(id int64) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}

	for _, e := range g.EdgesOf(id) {
		g.deleteEdge(e.ID)
	}
	for _, eid := range g.edgeOrder {
		e := g.edges[eid]
		if e.OriginalFrom != nil && *e.OriginalFrom == id {
			e.OriginalFrom = nil
		}
		if e.OriginalTo != nil && *e.OriginalTo == id {
			e.OriginalTo = nil
		}
	}

	if n.ParentGroupID != nil {
		if parent, ok := g.nodes[*n.ParentGroupID]; ok {
			parent.MemberIDs = removeID(parent.MemberIDs, id)
		}
	}
	if n.Kind == domain.KindGroup {
		for _, mid := range n.MemberIDs {
			if m, ok := g.nodes[mid]; ok && m.ParentGroupID != nil && *m.ParentGroupID == id {
				m.ParentGroupID = nil
			}
		}
		for _, eid := range g.edgeOrder {
			e := g.edges[eid]
			if e.HiddenInternal && n.IsMember(e.From) && n.IsMember(e.To) {
				e.HiddenInternal = false
			}
		}
	}

	delete(g.nodes, id)
	g.nodeOrder = removeID(g.nodeOrder, id)
	g.touch()
}

// AddEdge inserts a dependency edge, allocating its id when unset.
// Self-loops and edges referencing missing nodes are rejected.
func (g *TaskGraph) AddEdge(e *domain.DependencyEdge) (*domain.DependencyEdge, error) {
	if e.From == e.To {
		return nil, ErrSelfDependency
	}
	if _, ok := g.nodes[e.From]; !ok {
		return nil, ErrUnknownEndpoint
	}
	if _, ok := g.nodes[e.To]; !ok {
		return nil, ErrUnknownEndpoint
	}
	if e.Type == "" {
		e.Type = domain.FinishToStart
	}
	if e.ID == 0 {
		e.ID = g.nextEdgeID
	}
	if e.ID >= g.nextEdgeID {
		g.nextEdgeID = e.ID + 1
	}
	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
	g.touch()
	return e, nil
}

// RemoveEdge deletes an edge by id. A missing id is a silent no-op.
func (g *TaskGraph) RemoveEdge(id int64) {
	if _, ok := g.edges[id]; !ok {
		return
	}
	g.deleteEdge(id)
	g.touch()
}

// RemoveEdgeBetween deletes every edge currently running from one node to
// another. Missing endpoints are a silent no-op.
func (g *TaskGraph) RemoveEdgeBetween(from, to int64) {
	removed := false
	for _, id := range append([]int64(nil), g.edgeOrder...) {
		e := g.edges[id]
		if e.From == from && e.To == to {
			g.deleteEdge(id)
			removed = true
		}
	}
	if removed {
		g.touch()
	}
}

func (g *TaskGraph) deleteEdge(id int64) {
	delete(g.edges, id)
	g.edgeOrder = removeID(g.edgeOrder, id)
}

// Node returns the node with the given id, or nil.
func (g *TaskGraph) Node(id int64) *domain.TaskNode {
	return g.nodes[id]
}

// Edge returns the edge with the given id, or nil.
func (g *TaskGraph) Edge(id int64) *domain.DependencyEdge {
	return g.edges[id]
}

// Nodes returns all nodes in insertion order.
func (g *TaskGraph) Nodes() []*domain.TaskNode {
	out := make([]*domain.TaskNode, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *TaskGraph) Edges() []*domain.DependencyEdge {
	out := make([]*domain.DependencyEdge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// EdgesOf returns every edge incident to the node, in insertion order.
func (g *TaskGraph) EdgesOf(id int64) []*domain.DependencyEdge {
	var out []*domain.DependencyEdge
	for _, eid := range g.edgeOrder {
		e := g.edges[eid]
		if e.From == id || e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Successors returns the outgoing edges of the node, in insertion order.
func (g *TaskGraph) Successors(id int64) []*domain.DependencyEdge {
	var out []*domain.DependencyEdge
	for _, eid := range g.edgeOrder {
		if e := g.edges[eid]; e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// Predecessors returns the incoming edges of the node, in insertion order.
func (g *TaskGraph) Predecessors(id int64) []*domain.DependencyEdge {
	var out []*domain.DependencyEdge
	for _, eid := range g.edgeOrder {
		if e := g.edges[eid]; e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Touch marks the graph as mutated without structural change, for callers
// that edit node fields in place (date edits, solver apply).
func (g *TaskGraph) Touch() { g.touch() }

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
