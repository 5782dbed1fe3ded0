package graph

import "github.com/okerlund/planfold/internal/domain"

// Projection selects which view the visibility predicates answer for.
type Projection int

const (
	// GanttView replaces an expanded group's header row with its members.
	GanttView Projection = iota
	// NodeView always shows group headers, expanded or not.
	NodeView
)

// NodeVisible reports whether the node is drawn in the given projection.
// A node is hidden when it is an expanded group (Gantt view only) or when its
// parent group is currently collapsed.
func (g *TaskGraph) NodeVisible(id int64, proj Projection) bool {
	n := g.nodes[id]
	if n == nil {
		return false
	}
	if n.Kind == domain.KindGroup && !n.Collapsed && proj == GanttView {
		return false
	}
	if n.ParentGroupID != nil {
		if parent := g.nodes[*n.ParentGroupID]; parent != nil && parent.Collapsed {
			return false
		}
	}
	return true
}

// EdgeVisible reports whether the edge is drawn in the given projection.
// Hidden-internal edges and edges with an invisible endpoint are not drawn.
func (g *TaskGraph) EdgeVisible(id int64, proj Projection) bool {
	e := g.edges[id]
	if e == nil || e.HiddenInternal {
		return false
	}
	return g.NodeVisible(e.From, proj) && g.NodeVisible(e.To, proj)
}
