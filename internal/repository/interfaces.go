package repository

import (
	"context"

	"github.com/okerlund/planfold/internal/domain"
)

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Plan, error)
	Update(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error
}

type NodeRepo interface {
	Create(ctx context.Context, planID string, n *domain.TaskNode) error
	GetByID(ctx context.Context, planID string, id int64) (*domain.TaskNode, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.TaskNode, error)
	// ReplaceAll swaps the plan's whole node set in one shot; the graph
	// services persist full in-memory state through it.
	ReplaceAll(ctx context.Context, planID string, nodes []*domain.TaskNode) error
}

type EdgeRepo interface {
	Create(ctx context.Context, planID string, e *domain.DependencyEdge) error
	GetByID(ctx context.Context, planID string, id int64) (*domain.DependencyEdge, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.DependencyEdge, error)
	ReplaceAll(ctx context.Context, planID string, edges []*domain.DependencyEdge) error
}
