package service

import (
	"context"
	"fmt"

	"github.com/okerlund/planfold/internal/db"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/importer"
	"github.com/okerlund/planfold/internal/layout"
	"github.com/okerlund/planfold/internal/repository"
)

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Plan      *domain.Plan
	NodeCount int
	EdgeCount int
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
	ExportPlan(ctx context.Context, planID, filePath string) error
}

type importService struct {
	plans repository.PlanRepo
	uow   db.UnitOfWork
}

func NewImportService(plans repository.PlanRepo, uow db.UnitOfWork) ImportService {
	return &importService{plans: plans, uow: uow}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportPlanFromSchema(ctx, schema)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	gen, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	layout.AssignRows(gen.Graph)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePlanRepo(tx).Create(ctx, gen.Plan); err != nil {
			return err
		}
		if err := repository.NewSQLiteNodeRepo(tx).ReplaceAll(ctx, gen.Plan.ID, gen.Graph.Nodes()); err != nil {
			return err
		}
		return repository.NewSQLiteEdgeRepo(tx).ReplaceAll(ctx, gen.Plan.ID, gen.Graph.Edges())
	})
	if err != nil {
		return nil, fmt.Errorf("persisting import: %w", err)
	}

	return &ImportResult{
		Plan:      gen.Plan,
		NodeCount: len(gen.Graph.Nodes()),
		EdgeCount: len(gen.Graph.Edges()),
	}, nil
}

func (s *importService) ExportPlan(ctx context.Context, planID, filePath string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	var schema *importer.ImportSchema
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := loadGraph(ctx, tx, plan)
		if err != nil {
			return err
		}
		schema = importer.Export(plan, g)
		return nil
	})
	if err != nil {
		return err
	}
	return importer.WriteSchema(schema, filePath)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
