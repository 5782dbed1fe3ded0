package grouping

import (
	"errors"
	"math"
	"time"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

var (
	// ErrTooFewMembers is returned when a group is created from fewer than
	// two nodes.
	ErrTooFewMembers = errors.New("a group needs at least two members")
	// ErrNestedGroup is returned when a selected node is itself a group or
	// already belongs to one.
	ErrNestedGroup = errors.New("groups cannot be nested")
	// ErrResourceMember is returned when a selected node is a resource.
	ErrResourceMember = errors.New("resources cannot be grouped")
	// ErrNotAGroup is returned when a group operation targets a non-group node.
	ErrNotAGroup = errors.New("node is not a group")
)

// Engine creates, collapses, expands and deletes group nodes, remapping the
// dependency edges that cross a group boundary. All methods are dangling-safe:
// operating on an id that no longer exists is a silent no-op.
type Engine struct {
	g *graph.TaskGraph
}

// NewEngine creates a grouping engine over the given graph.
func NewEngine(g *graph.TaskGraph) *Engine {
	return &Engine{g: g}
}

// CreateGroup folds the selected nodes into a new collapsed group node.
// The group spans the members' combined date range, takes the minimum member
// row index, and boundary edges are remapped onto it.
func (e *Engine) CreateGroup(title string, selectedIDs []int64) (*domain.TaskNode, error) {
	seen := make(map[int64]bool, len(selectedIDs))
	ids := make([]int64, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return nil, ErrTooFewMembers
	}
	members := make([]*domain.TaskNode, 0, len(ids))
	for _, id := range ids {
		n := e.g.Node(id)
		if n == nil {
			return nil, nil // dangling selection, nothing to do
		}
		if n.Kind == domain.KindGroup || n.ParentGroupID != nil {
			return nil, ErrNestedGroup
		}
		if n.Kind == domain.KindResource {
			return nil, ErrResourceMember
		}
		members = append(members, n)
	}

	now := time.Now().UTC()
	group := &domain.TaskNode{
		Title:     title,
		Kind:      domain.KindGroup,
		RowIndex:  minRowIndex(members),
		MemberIDs: ids,
		Collapsed: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	group.Start, group.DurationDays = memberSpan(members)
	group.CenterX, group.CenterY = memberCentroid(members)
	e.g.AddNode(group)

	for _, m := range members {
		id := group.ID
		m.ParentGroupID = &id
	}
	e.remapBoundaryEdges(group)
	return group, nil
}

// CollapseGroup folds an expanded group back down, re-remapping boundary
// edges created since the last collapse and refreshing the group's span.
// Already-collapsed groups and non-existent ids are no-ops.
func (e *Engine) CollapseGroup(groupID int64) error {
	group := e.g.Node(groupID)
	if group == nil || group.Collapsed {
		return nil
	}
	if group.Kind != domain.KindGroup {
		return ErrNotAGroup
	}
	group.Collapsed = true
	e.remapBoundaryEdges(group)
	e.refreshSpan(group)
	e.g.Touch()
	return nil
}

// ExpandGroup restores a collapsed group's boundary edges to their original
// endpoints and un-hides its internal edges. Edges attached to the group
// without a stored original (created while it was collapsed) are remapped to
// the member whose layout center is nearest the edge's other endpoint, ties
// going to the first-created member.
func (e *Engine) ExpandGroup(groupID int64) error {
	group := e.g.Node(groupID)
	if group == nil || (group.Kind == domain.KindGroup && !group.Collapsed) {
		return nil
	}
	if group.Kind != domain.KindGroup {
		return ErrNotAGroup
	}

	// Two-phase: plan every edge rewrite first, then apply, so the edge
	// collection is never mutated mid-iteration.
	type rewrite struct {
		edge     *domain.DependencyEdge
		from, to *int64
		unhide   bool
	}
	var plan []rewrite

	for _, edge := range e.g.Edges() {
		var rw rewrite
		rw.edge = edge
		changed := false
		// A stored original that no longer resolves (the member was deleted
		// while the group was collapsed) is treated like an edge created
		// during collapse: reattach to the nearest live member.
		if edge.From == groupID {
			if o := edge.OriginalFrom; o != nil && e.g.Node(*o) != nil {
				rw.from = o
			} else if m := e.nearestMember(group, edge.To); m != 0 {
				v := m
				rw.from = &v
			}
			changed = rw.from != nil
		}
		if edge.To == groupID {
			if o := edge.OriginalTo; o != nil && e.g.Node(*o) != nil {
				rw.to = o
			} else if m := e.nearestMember(group, edge.From); m != 0 {
				v := m
				rw.to = &v
			}
			changed = changed || rw.to != nil
		}
		if edge.HiddenInternal && group.IsMember(edge.From) && group.IsMember(edge.To) {
			rw.unhide = true
			changed = true
		}
		if changed {
			plan = append(plan, rw)
		}
	}

	for _, rw := range plan {
		if rw.from != nil {
			rw.edge.From = *rw.from
			rw.edge.OriginalFrom = nil
		}
		if rw.to != nil {
			rw.edge.To = *rw.to
			rw.edge.OriginalTo = nil
		}
		if rw.unhide {
			rw.edge.HiddenInternal = false
		}
	}

	group.Collapsed = false
	e.g.Touch()
	return nil
}

// DeleteGroup ungroups: members keep their dates and lose their back-
// reference, restored boundary edges survive, and edges still attached to
// the group id are dropped along with the group node.
func (e *Engine) DeleteGroup(groupID int64) error {
	group := e.g.Node(groupID)
	if group == nil {
		return nil
	}
	if group.Kind != domain.KindGroup {
		return ErrNotAGroup
	}
	if group.Collapsed {
		if err := e.ExpandGroup(groupID); err != nil {
			return err
		}
	}
	for _, mid := range group.MemberIDs {
		if m := e.g.Node(mid); m != nil {
			m.ParentGroupID = nil
		}
	}
	for _, edge := range e.g.Edges() {
		if edge.HiddenInternal && group.IsMember(edge.From) && group.IsMember(edge.To) {
			edge.HiddenInternal = false
		}
	}
	// RemoveNode cascades any edge still referencing the group id.
	e.g.RemoveNode(groupID)
	return nil
}

// remapBoundaryEdges classifies every edge against the group's member set:
// fully-internal edges are hidden, boundary edges get the inside endpoint
// remapped to the group id with the original stored. Idempotent: an already
// stored original is never overwritten.
func (e *Engine) remapBoundaryEdges(group *domain.TaskNode) {
	inside := make(map[int64]bool, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		inside[id] = true
	}

	for _, edge := range e.g.Edges() {
		fromIn, toIn := inside[edge.From], inside[edge.To]
		switch {
		case fromIn && toIn:
			edge.HiddenInternal = true
		case fromIn:
			if edge.OriginalFrom == nil {
				v := edge.From
				edge.OriginalFrom = &v
			}
			edge.From = group.ID
		case toIn:
			if edge.OriginalTo == nil {
				v := edge.To
				edge.OriginalTo = &v
			}
			edge.To = group.ID
		}
	}
}

// nearestMember picks the member whose layout center is closest to the other
// endpoint's center, in Euclidean distance. Ties go to the earliest member in
// creation order. Returns 0 for an empty group or missing other endpoint.
func (e *Engine) nearestMember(group *domain.TaskNode, otherID int64) int64 {
	other := e.g.Node(otherID)
	if other == nil || len(group.MemberIDs) == 0 {
		return 0
	}
	best := int64(0)
	bestDist := math.Inf(1)
	for _, mid := range group.MemberIDs {
		m := e.g.Node(mid)
		if m == nil {
			continue
		}
		dx, dy := m.CenterX-other.CenterX, m.CenterY-other.CenterY
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = mid
		}
	}
	return best
}

// refreshSpan recomputes the group's date span from its live members.
func (e *Engine) refreshSpan(group *domain.TaskNode) {
	members := make([]*domain.TaskNode, 0, len(group.MemberIDs))
	for _, mid := range group.MemberIDs {
		if m := e.g.Node(mid); m != nil {
			members = append(members, m)
		}
	}
	group.Start, group.DurationDays = memberSpan(members)
	group.CenterX, group.CenterY = memberCentroid(members)
	group.UpdatedAt = time.Now().UTC()
}

// memberSpan returns the covering date span: minimum start to maximum
// inclusive end. Unscheduled members are ignored; all-unscheduled yields
// a nil start.
func memberSpan(members []*domain.TaskNode) (*time.Time, int) {
	var start, end *time.Time
	for _, m := range members {
		if m.Start == nil {
			continue
		}
		if start == nil || m.Start.Before(*start) {
			s := *m.Start
			start = &s
		}
		if me := m.End(); end == nil || me.After(*end) {
			e := *me
			end = &e
		}
	}
	if start == nil {
		return nil, 0
	}
	return start, domain.DaysBetween(*start, *end) + 1
}

func memberCentroid(members []*domain.TaskNode) (float64, float64) {
	if len(members) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, m := range members {
		sx += m.CenterX
		sy += m.CenterY
	}
	n := float64(len(members))
	return sx / n, sy / n
}

func minRowIndex(members []*domain.TaskNode) int {
	min := -1
	for _, m := range members {
		if m.RowIndex >= 0 && (min < 0 || m.RowIndex < min) {
			min = m.RowIndex
		}
	}
	return min
}
