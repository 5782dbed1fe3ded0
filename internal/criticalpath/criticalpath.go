package criticalpath

import "github.com/okerlund/planfold/internal/domain"

// Service computes critical-path membership from task durations and typed
// dependency edges. It is a pure function of its inputs: the graph is never
// mutated. The service layer invokes it after structural edits; the scheduler
// never calls it.
type Service struct{}

// New creates a critical path service.
func New() *Service { return &Service{} }

// Compute returns the set of task ids with zero total float. Edges whose
// endpoints are not both in the task slice are ignored, as are nodes caught
// in a dependency cycle (they cannot be placed on any path).
func (s *Service) Compute(tasks []*domain.TaskNode, edges []*domain.DependencyEdge) map[int64]bool {
	dur := make(map[int64]int, len(tasks))
	for _, t := range tasks {
		dur[t.ID] = t.DurationDays
	}

	var live []*domain.DependencyEdge
	for _, e := range edges {
		if _, ok := dur[e.From]; !ok {
			continue
		}
		if _, ok := dur[e.To]; !ok {
			continue
		}
		live = append(live, e)
	}

	// Nodes dropped by a cycle are simply absent from the order.
	order := topoOrder(tasks, live)
	if len(order) == 0 {
		return map[int64]bool{}
	}

	inOrder := make(map[int64]bool, len(order))
	for _, id := range order {
		inOrder[id] = true
	}

	// Forward pass: earliest starts in relative day units.
	es := make(map[int64]int, len(order))
	for _, id := range order {
		es[id] = 0
	}
	for _, id := range order {
		for _, e := range live {
			if e.To != id || !inOrder[e.From] {
				continue
			}
			if c := forwardCandidate(e, es[e.From], dur[e.From]); c > es[id] {
				es[id] = c
			}
		}
	}

	finish := 0
	for _, id := range order {
		if f := es[id] + dur[id]; f > finish {
			finish = f
		}
	}

	// Backward pass: latest starts against the project finish.
	ls := make(map[int64]int, len(order))
	for _, id := range order {
		ls[id] = finish - dur[id]
	}
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		for _, e := range live {
			if e.From != id || !inOrder[e.To] {
				continue
			}
			if c := backwardBound(e, ls[e.To], dur[id]); c < ls[id] {
				ls[id] = c
			}
		}
	}

	critical := make(map[int64]bool)
	for _, id := range order {
		if es[id] == ls[id] {
			critical[id] = true
		}
	}
	return critical
}

// forwardCandidate mirrors the scheduler's candidate-start table in relative
// day units, with the predecessor's exclusive end at es+dur.
func forwardCandidate(e *domain.DependencyEdge, predStart, predDur int) int {
	switch e.Type {
	case domain.StartToStart, domain.StartToFinish:
		return predStart + e.LagDays
	case domain.FinishToFinish:
		return predStart + maxInt(predDur-1, 0) + e.LagDays
	default: // FinishToStart
		return predStart + predDur + e.LagDays
	}
}

// backwardBound inverts forwardCandidate: the latest the predecessor may
// start while its successor still starts by succLatest.
func backwardBound(e *domain.DependencyEdge, succLatest, predDur int) int {
	switch e.Type {
	case domain.StartToStart, domain.StartToFinish:
		return succLatest - e.LagDays
	case domain.FinishToFinish:
		return succLatest - maxInt(predDur-1, 0) - e.LagDays
	default:
		return succLatest - predDur - e.LagDays
	}
}

// topoOrder is a Kahn pass; nodes inside a cycle never reach zero in-degree
// and are left out of the returned order.
func topoOrder(tasks []*domain.TaskNode, edges []*domain.DependencyEdge) []int64 {
	indeg := make(map[int64]int, len(tasks))
	for _, t := range tasks {
		indeg[t.ID] = 0
	}
	for _, e := range edges {
		indeg[e.To]++
	}

	var queue []int64
	for _, t := range tasks {
		if indeg[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}

	var order []int64
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, e := range edges {
			if e.From != id {
				continue
			}
			indeg[e.To]--
			if indeg[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}
	return order
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
