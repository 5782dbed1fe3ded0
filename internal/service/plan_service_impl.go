package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/repository"
)

type planService struct {
	plans repository.PlanRepo
}

func NewPlanService(plans repository.PlanRepo) PlanService {
	return &planService{plans: plans}
}

func (s *planService) Create(ctx context.Context, name string) (*domain.Plan, error) {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:         uuid.New().String(),
		Name:       name,
		Status:     domain.PlanActive,
		NextNodeID: 1,
		NextEdgeID: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) List(ctx context.Context, includeArchived bool) ([]*domain.Plan, error) {
	return s.plans.List(ctx, includeArchived)
}

func (s *planService) Rename(ctx context.Context, id, name string) error {
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	return s.plans.Update(ctx, p)
}

func (s *planService) Archive(ctx context.Context, id string) error {
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = domain.PlanArchived
	p.UpdatedAt = time.Now().UTC()
	return s.plans.Update(ctx, p)
}

func (s *planService) Delete(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}
