package leveling

import (
	"context"
	"errors"
	"time"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

// ErrStaleResult is returned by Apply when the graph changed while the solve
// was in flight; the result is discarded.
var ErrStaleResult = errors.New("graph changed while leveling was in flight")

// Outcome carries a finished solve back to the mutation thread.
type Outcome struct {
	Solution *Solution
	Revision uint64 // graph revision captured at launch
	Err      error
}

// Runner executes a leveling solve off the mutation path. The graph is
// snapshotted at launch; the solver never sees live nodes. The result is
// applied later, on the mutation thread, as a single atomic operation that
// goes through the same start/duration update the scheduler uses.
type Runner struct {
	solver Solver
}

// NewRunner creates a runner around the given solver.
func NewRunner(solver Solver) *Runner {
	return &Runner{solver: solver}
}

// Launch snapshots the graph and starts the solve in a goroutine. The
// returned channel delivers exactly one Outcome.
func (r *Runner) Launch(ctx context.Context, g *graph.TaskGraph, cfg Config) <-chan Outcome {
	tasks := snapshotNodes(g)
	edges := snapshotEdges(g)
	rev := g.Revision()

	out := make(chan Outcome, 1)
	go func() {
		sol, err := r.solver.Solve(ctx, tasks, edges, cfg)
		out <- Outcome{Solution: sol, Revision: rev, Err: err}
		close(out)
	}()
	return out
}

// Apply writes a solve result back onto the graph. A result computed against
// an older revision is discarded with ErrStaleResult, which is how a solve is
// "cancelled" after the user edits the graph.
func (r *Runner) Apply(g *graph.TaskGraph, o Outcome) error {
	if o.Err != nil {
		return o.Err
	}
	if g.Revision() != o.Revision {
		return ErrStaleResult
	}
	now := time.Now().UTC()
	for id, start := range o.Solution.Starts {
		n := g.Node(id)
		if n == nil || n.Kind == domain.KindMilestone {
			continue
		}
		s := domain.DateOnly(start)
		n.Start = &s
		n.UpdatedAt = now
	}
	for id, dur := range o.Solution.Durations {
		n := g.Node(id)
		if n == nil || n.Kind == domain.KindMilestone {
			continue
		}
		n.DurationDays = dur
		n.UpdatedAt = now
	}
	g.Touch()
	return nil
}

func snapshotNodes(g *graph.TaskGraph) []*domain.TaskNode {
	nodes := g.Nodes()
	out := make([]*domain.TaskNode, 0, len(nodes))
	for _, n := range nodes {
		c := *n
		if n.Start != nil {
			s := *n.Start
			c.Start = &s
		}
		c.MemberIDs = append([]int64(nil), n.MemberIDs...)
		out = append(out, &c)
	}
	return out
}

func snapshotEdges(g *graph.TaskGraph) []*domain.DependencyEdge {
	edges := g.Edges()
	out := make([]*domain.DependencyEdge, 0, len(edges))
	for _, e := range edges {
		c := *e
		out = append(out, &c)
	}
	return out
}
