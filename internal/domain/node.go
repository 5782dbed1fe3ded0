package domain

import "time"

// TaskNode is a single node in the task-dependency graph: a schedulable task,
// a fixed-date milestone, a collapsible group, or a resource.
type TaskNode struct {
	ID    int64
	Title string
	Kind  NodeKind

	// Scheduling
	Start           *time.Time // nil = unscheduled
	DurationDays    int        // whole days; 0 for milestones
	PercentComplete int        // 0-100

	// Rendering
	RowIndex int // dense render order; -1 = unassigned
	CenterX  float64
	CenterY  float64

	// Grouping. ParentGroupID is a weak back-reference; membership is owned
	// by the group's MemberIDs list and the two must stay consistent.
	ParentGroupID *int64
	MemberIDs     []int64 // group kind only, in creation order
	Collapsed     bool    // group kind only

	CreatedAt time.Time
	UpdatedAt time.Time
}

// End returns the inclusive end date: Start plus DurationDays-1 days.
// A zero-duration node (milestone) ends on its start date.
// Returns nil when the node is unscheduled.
func (n *TaskNode) End() *time.Time {
	if n.Start == nil {
		return nil
	}
	d := n.DurationDays - 1
	if d < 0 {
		d = 0
	}
	e := n.Start.AddDate(0, 0, d)
	return &e
}

// IsMember reports whether id is in the group's member list.
func (n *TaskNode) IsMember(id int64) bool {
	for _, m := range n.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Schedulable reports whether the node participates in date propagation.
// Groups derive their span from members and resources carry no dates.
func (n *TaskNode) Schedulable() bool {
	return n.Kind == KindTask || n.Kind == KindMilestone
}
