package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okerlund/planfold/internal/calendar"
	"github.com/okerlund/planfold/internal/criticalpath"
	"github.com/okerlund/planfold/internal/db"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/okerlund/planfold/internal/grouping"
	"github.com/okerlund/planfold/internal/layout"
	"github.com/okerlund/planfold/internal/leveling"
	"github.com/okerlund/planfold/internal/repository"
	"github.com/okerlund/planfold/internal/scheduler"
)

// ErrGroupsViaGrouping rejects attempts to create a group node through the
// plain task path; groups come only from CreateGroup.
var ErrGroupsViaGrouping = errors.New("group nodes are created from a selection, not added directly")

type graphService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	cal      calendar.Calendar
	cp       *criticalpath.Service
	runner   *leveling.Runner
	observer UseCaseObserver
}

// NewGraphService wires the graph mutation path: repositories for
// persistence, the calendar for date snapping, the critical path service for
// post-edit recomputation and the leveling runner for solver execution.
func NewGraphService(
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	cal calendar.Calendar,
	cp *criticalpath.Service,
	runner *leveling.Runner,
	observer UseCaseObserver,
) GraphService {
	return &graphService{
		plans:    plans,
		uow:      uow,
		cal:      cal,
		cp:       cp,
		runner:   runner,
		observer: useCaseObserverOrNoop(observer),
	}
}

func (s *graphService) Snapshot(ctx context.Context, planID string) (*Snapshot, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	var g *graph.TaskGraph
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		g, err = loadGraph(ctx, tx, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Plan:     plan,
		Graph:    g,
		Critical: s.computeCritical(g),
	}, nil
}

func (s *graphService) AddTask(ctx context.Context, planID string, in TaskInput) (*domain.TaskNode, error) {
	if in.Kind == "" {
		in.Kind = domain.KindTask
	}
	if in.Kind == domain.KindGroup {
		return nil, ErrGroupsViaGrouping
	}
	var created *domain.TaskNode
	err := s.mutate(ctx, planID, "add_task", false, func(g *graph.TaskGraph) error {
		now := time.Now().UTC()
		n := &domain.TaskNode{
			Title:           in.Title,
			Kind:            in.Kind,
			DurationDays:    in.DurationDays,
			PercentComplete: in.PercentComplete,
			RowIndex:        -1,
			CenterX:         in.CenterX,
			CenterY:         in.CenterY,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if in.Kind == domain.KindMilestone {
			n.DurationDays = 0
		}
		if in.Start != nil {
			start := s.cal.SnapToWorkingDay(*in.Start)
			n.Start = &start
		}
		created = g.AddNode(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *graphService) SetTaskDates(ctx context.Context, planID string, id int64, start time.Time, durationDays int) error {
	return s.mutate(ctx, planID, "set_task_dates", false, func(g *graph.TaskGraph) error {
		n := g.Node(id)
		if n == nil {
			return nil // nothing to do
		}
		snapped := s.cal.SnapToWorkingDay(start)
		n.Start = &snapped
		if n.Kind != domain.KindMilestone && durationDays >= 0 {
			n.DurationDays = durationDays
		}
		n.UpdatedAt = time.Now().UTC()
		g.Touch()
		return nil
	})
}

func (s *graphService) SetProgress(ctx context.Context, planID string, id int64, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return s.mutate(ctx, planID, "set_progress", false, func(g *graph.TaskGraph) error {
		n := g.Node(id)
		if n == nil {
			return nil
		}
		n.PercentComplete = percent
		n.UpdatedAt = time.Now().UTC()
		g.Touch()
		return nil
	})
}

func (s *graphService) RemoveTask(ctx context.Context, planID string, id int64) error {
	return s.mutate(ctx, planID, "remove_task", true, func(g *graph.TaskGraph) error {
		// Removing a group is an ungroup: boundary edges are restored to
		// their original endpoints and internal edges un-hidden, rather
		// than cascading the members' dependencies away with the header.
		if n := g.Node(id); n != nil && n.Kind == domain.KindGroup {
			return grouping.NewEngine(g).DeleteGroup(id)
		}
		g.RemoveNode(id)
		return nil
	})
}

func (s *graphService) AddDependency(ctx context.Context, planID string, from, to int64, depType domain.DependencyType, lagDays int) (*domain.DependencyEdge, error) {
	if from == to {
		return nil, graph.ErrSelfDependency
	}
	var created *domain.DependencyEdge
	err := s.mutate(ctx, planID, "add_dependency", true, func(g *graph.TaskGraph) error {
		e, err := g.AddEdge(&domain.DependencyEdge{
			From:    from,
			To:      to,
			Type:    depType,
			LagDays: lagDays,
		})
		if errors.Is(err, graph.ErrUnknownEndpoint) {
			return nil // dangling reference, nothing to do
		}
		if err != nil {
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *graphService) RemoveDependency(ctx context.Context, planID string, from, to int64) error {
	return s.mutate(ctx, planID, "remove_dependency", true, func(g *graph.TaskGraph) error {
		g.RemoveEdgeBetween(from, to)
		return nil
	})
}

func (s *graphService) CreateGroup(ctx context.Context, planID, title string, memberIDs []int64) (*domain.TaskNode, error) {
	var created *domain.TaskNode
	err := s.mutate(ctx, planID, "create_group", true, func(g *graph.TaskGraph) error {
		group, err := grouping.NewEngine(g).CreateGroup(title, memberIDs)
		if err != nil {
			return err
		}
		created = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *graphService) CollapseGroup(ctx context.Context, planID string, id int64) error {
	return s.mutate(ctx, planID, "collapse_group", true, func(g *graph.TaskGraph) error {
		return grouping.NewEngine(g).CollapseGroup(id)
	})
}

func (s *graphService) ExpandGroup(ctx context.Context, planID string, id int64) error {
	return s.mutate(ctx, planID, "expand_group", true, func(g *graph.TaskGraph) error {
		return grouping.NewEngine(g).ExpandGroup(id)
	})
}

func (s *graphService) DeleteGroup(ctx context.Context, planID string, id int64) error {
	return s.mutate(ctx, planID, "delete_group", true, func(g *graph.TaskGraph) error {
		return grouping.NewEngine(g).DeleteGroup(id)
	})
}

func (s *graphService) AutoScheduleFrom(ctx context.Context, planID string, id int64) (*scheduler.Result, error) {
	var res *scheduler.Result
	err := s.mutate(ctx, planID, "auto_schedule", false, func(g *graph.TaskGraph) error {
		res = scheduler.New(g, s.cal).AutoScheduleFrom(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *graphService) LevelResources(ctx context.Context, planID string, cfg leveling.Config) (int, error) {
	moved := 0
	err := s.mutate(ctx, planID, "level_resources", false, func(g *graph.TaskGraph) error {
		// The solve runs in its own goroutine against a snapshot; the edit
		// lock here is the transaction itself.
		outcome := <-s.runner.Launch(ctx, g, cfg)
		if err := s.runner.Apply(g, outcome); err != nil {
			return err
		}
		moved = len(outcome.Solution.Starts) + len(outcome.Solution.Durations)
		return nil
	})
	return moved, err
}

// mutate is the single write path: load the graph, apply fn, recompute row
// layout, persist everything in one transaction, and (for structural edits)
// recompute the critical path for observers.
func (s *graphService) mutate(ctx context.Context, planID, name string, structural bool, fn func(g *graph.TaskGraph) error) error {
	started := time.Now()
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return err
	}

	var g *graph.TaskGraph
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		g, err = loadGraph(ctx, tx, plan)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		layout.AssignRows(g)
		return saveGraph(ctx, tx, plan, g)
	})

	fields := map[string]any{"plan_id": plan.DisplayID()}
	if err == nil && structural {
		fields["critical_count"] = len(s.computeCritical(g))
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
	return err
}

// computeCritical feeds the critical path service the schedulable nodes and
// the edges with remapped endpoints resolved back to their originals, so a
// collapsed group never masks the real dependency structure. A group header
// is marked critical when any of its members is, so the highlight survives
// collapsing.
func (s *graphService) computeCritical(g *graph.TaskGraph) map[int64]bool {
	var tasks []*domain.TaskNode
	for _, n := range g.Nodes() {
		if n.Schedulable() {
			tasks = append(tasks, n)
		}
	}
	var edges []*domain.DependencyEdge
	for _, e := range g.Edges() {
		c := *e
		if e.OriginalFrom != nil {
			c.From = *e.OriginalFrom
		}
		if e.OriginalTo != nil {
			c.To = *e.OriginalTo
		}
		edges = append(edges, &c)
	}
	crit := s.cp.Compute(tasks, edges)
	for _, n := range g.Nodes() {
		if n.Kind != domain.KindGroup {
			continue
		}
		for _, mid := range n.MemberIDs {
			if crit[mid] {
				crit[n.ID] = true
				break
			}
		}
	}
	return crit
}

func loadGraph(ctx context.Context, tx db.DBTX, plan *domain.Plan) (*graph.TaskGraph, error) {
	nodes, err := repository.NewSQLiteNodeRepo(tx).ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	edges, err := repository.NewSQLiteEdgeRepo(tx).ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}
	return graph.Load(nodes, edges, plan.NextNodeID, plan.NextEdgeID), nil
}

func saveGraph(ctx context.Context, tx db.DBTX, plan *domain.Plan, g *graph.TaskGraph) error {
	if err := repository.NewSQLiteNodeRepo(tx).ReplaceAll(ctx, plan.ID, g.Nodes()); err != nil {
		return fmt.Errorf("saving nodes: %w", err)
	}
	if err := repository.NewSQLiteEdgeRepo(tx).ReplaceAll(ctx, plan.ID, g.Edges()); err != nil {
		return fmt.Errorf("saving edges: %w", err)
	}
	plan.NextNodeID = g.NextNodeID()
	plan.NextEdgeID = g.NextEdgeID()
	plan.UpdatedAt = time.Now().UTC()
	if err := repository.NewSQLitePlanRepo(tx).Update(ctx, plan); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}
