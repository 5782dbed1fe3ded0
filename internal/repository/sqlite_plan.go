package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okerlund/planfold/internal/db"
	"github.com/okerlund/planfold/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo. Pass a *sql.Tx for a
// transaction-scoped repository.
func NewSQLitePlanRepo(dbtx db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: dbtx}
}

const planColumns = `id, name, status, next_node_id, next_edge_id, created_at, updated_at`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		string(p.Status),
		p.NextNodeID,
		p.NextEdgeID,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanPlan(row)
}

func (r *SQLitePlanRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at`
	if !includeArchived {
		query = `SELECT ` + planColumns + ` FROM plans WHERE status != 'archived' ORDER BY created_at`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlanRow(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET name = ?, status = ?, next_node_id = ?, next_edge_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Status),
		p.NextNodeID,
		p.NextEdgeID,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	// Nodes and edges cascade via foreign keys.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.Plan, error) {
	p, err := scanPlanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan: %w", ErrNotFound)
	}
	return p, err
}

func scanPlanRow(row rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var status, createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &status, &p.NextNodeID, &p.NextEdgeID, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.Status = domain.PlanStatus(status)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}
