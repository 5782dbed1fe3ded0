package scheduler

import (
	"time"

	"github.com/okerlund/planfold/internal/calendar"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

// Result reports what AutoScheduleFrom did. Unfinalized lists nodes that
// could not be settled within the retry budget, which in practice means the
// closure contains a dependency cycle; those nodes keep their last dates and
// the caller surfaces them as a warning.
type Result struct {
	Updated     []int64
	Unfinalized []int64
}

// Scheduler propagates date changes forward through the dependency graph.
type Scheduler struct {
	g   *graph.TaskGraph
	cal calendar.Calendar
}

// New creates a scheduler over the given graph and working-day calendar.
func New(g *graph.TaskGraph, cal calendar.Calendar) *Scheduler {
	return &Scheduler{g: g, cal: cal}
}

// AutoScheduleFrom recomputes the earliest feasible start for the given node
// and every transitive successor. Nodes are finalized in dependency order
// restricted to the closure, with a bounded retry loop (2x the closure size)
// so malformed input terminates instead of looping. Milestones are fixed
// dates and never move; the pass is forward-only, so no node moves earlier
// than its current start. Each new start is snapped to the next working day.
//
// An unknown id is a silent no-op.
func (s *Scheduler) AutoScheduleFrom(taskID int64) *Result {
	res := &Result{}
	origin := s.g.Node(taskID)
	if origin == nil {
		return res
	}

	closure := s.successorClosure(taskID)
	finalized := make(map[int64]bool, len(closure))

	// The origin is the change source: it is finalized as-is, which also
	// breaks cycles running back through it.
	finalized[taskID] = true

	order := s.closureOrder(closure)
	maxPasses := 2 * len(order)
	for pass := 0; pass <= maxPasses; pass++ {
		progressed := false
		for _, id := range order {
			if finalized[id] {
				continue
			}
			if !s.predecessorsFinalized(id, closure, finalized) {
				continue
			}
			if s.finalize(id, closure) {
				res.Updated = append(res.Updated, id)
			}
			finalized[id] = true
			progressed = true
		}
		if !progressed {
			break
		}
	}

	for _, id := range order {
		if !finalized[id] {
			res.Unfinalized = append(res.Unfinalized, id)
		}
	}
	if len(res.Updated) > 0 {
		s.g.Touch()
	}
	return res
}

// successorClosure collects the node and everything reachable over outgoing
// dependency edges, breadth-first.
func (s *Scheduler) successorClosure(taskID int64) map[int64]bool {
	closure := map[int64]bool{taskID: true}
	queue := []int64{taskID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range s.g.Successors(id) {
			if !closure[e.To] {
				closure[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return closure
}

// closureOrder returns the closure in graph insertion order, which keeps
// scheduling passes deterministic.
func (s *Scheduler) closureOrder(closure map[int64]bool) []int64 {
	var order []int64
	for _, n := range s.g.Nodes() {
		if closure[n.ID] {
			order = append(order, n.ID)
		}
	}
	return order
}

func (s *Scheduler) predecessorsFinalized(id int64, closure, finalized map[int64]bool) bool {
	for _, e := range s.g.Predecessors(id) {
		if closure[e.From] && !finalized[e.From] {
			return false
		}
	}
	return true
}

// finalize settles one node's start date against its in-closure predecessors
// and reports whether the date changed.
func (s *Scheduler) finalize(id int64, closure map[int64]bool) bool {
	n := s.g.Node(id)
	if n == nil {
		return false
	}
	// Milestone dates are externally fixed.
	if n.Kind == domain.KindMilestone {
		return false
	}

	newStart := n.Start
	for _, e := range s.g.Predecessors(id) {
		if !closure[e.From] {
			continue
		}
		cand := s.candidateStart(e)
		if cand == nil {
			continue
		}
		if newStart == nil || cand.After(*newStart) {
			newStart = cand
		}
	}
	if newStart == nil {
		return false
	}
	snapped := s.cal.SnapToWorkingDay(*newStart)
	if n.Start != nil && snapped.Equal(*n.Start) {
		return false
	}
	n.Start = &snapped
	n.UpdatedAt = time.Now().UTC()
	return true
}

// candidateStart computes the earliest start the edge imposes on its
// successor, per the dependency type, plus lag. Returns nil when the
// predecessor is unscheduled.
func (s *Scheduler) candidateStart(e *domain.DependencyEdge) *time.Time {
	p := s.g.Node(e.From)
	if p == nil || p.Start == nil {
		return nil
	}
	var base time.Time
	switch e.Type {
	case domain.FinishToStart:
		base = p.End().AddDate(0, 0, 1)
	case domain.StartToStart:
		base = *p.Start
	case domain.FinishToFinish:
		base = *p.End()
	case domain.StartToFinish:
		base = *p.Start
	default:
		base = p.End().AddDate(0, 0, 1)
	}
	t := base.AddDate(0, 0, e.LagDays)
	return &t
}
