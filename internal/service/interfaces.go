package service

import (
	"context"
	"time"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/okerlund/planfold/internal/leveling"
	"github.com/okerlund/planfold/internal/scheduler"
)

type PlanService interface {
	Create(ctx context.Context, name string) (*domain.Plan, error)
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Plan, error)
	Rename(ctx context.Context, id, name string) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Snapshot is a read-only view of a plan: its graph plus the critical-path
// membership recomputed for display.
type Snapshot struct {
	Plan     *domain.Plan
	Graph    *graph.TaskGraph
	Critical map[int64]bool
}

// TaskInput carries the user-editable fields for creating a task node.
type TaskInput struct {
	Title            string
	Kind             domain.NodeKind
	Start            *time.Time
	DurationDays     int
	PercentComplete  int
	CenterX, CenterY float64
}

// GraphService is the single mutation path for a plan's task graph. Every
// operation loads the graph, applies the edit, recomputes row layout, and
// persists the result in one transaction; structural edits additionally
// recompute the critical path.
type GraphService interface {
	Snapshot(ctx context.Context, planID string) (*Snapshot, error)

	AddTask(ctx context.Context, planID string, in TaskInput) (*domain.TaskNode, error)
	SetTaskDates(ctx context.Context, planID string, id int64, start time.Time, durationDays int) error
	SetProgress(ctx context.Context, planID string, id int64, percent int) error
	RemoveTask(ctx context.Context, planID string, id int64) error

	AddDependency(ctx context.Context, planID string, from, to int64, depType domain.DependencyType, lagDays int) (*domain.DependencyEdge, error)
	RemoveDependency(ctx context.Context, planID string, from, to int64) error

	CreateGroup(ctx context.Context, planID, title string, memberIDs []int64) (*domain.TaskNode, error)
	CollapseGroup(ctx context.Context, planID string, id int64) error
	ExpandGroup(ctx context.Context, planID string, id int64) error
	DeleteGroup(ctx context.Context, planID string, id int64) error

	AutoScheduleFrom(ctx context.Context, planID string, id int64) (*scheduler.Result, error)
	LevelResources(ctx context.Context, planID string, cfg leveling.Config) (int, error)
}
