package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okerlund/planfold/internal/db"
	"github.com/okerlund/planfold/internal/domain"
)

// SQLiteEdgeRepo implements EdgeRepo using a SQLite database.
type SQLiteEdgeRepo struct {
	db db.DBTX
}

// NewSQLiteEdgeRepo creates a new SQLiteEdgeRepo. Pass a *sql.Tx for a
// transaction-scoped repository.
func NewSQLiteEdgeRepo(dbtx db.DBTX) *SQLiteEdgeRepo {
	return &SQLiteEdgeRepo{db: dbtx}
}

const edgeColumns = `id, from_id, to_id, dep_type, lag_days, hidden_internal, original_from, original_to`

func (r *SQLiteEdgeRepo) Create(ctx context.Context, planID string, e *domain.DependencyEdge) error {
	query := `INSERT INTO dependency_edges (plan_id, ` + edgeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		planID,
		e.ID,
		e.From,
		e.To,
		string(e.Type),
		e.LagDays,
		boolToInt(e.HiddenInternal),
		nullableIDToValue(e.OriginalFrom),
		nullableIDToValue(e.OriginalTo),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency edge: %w", err)
	}
	return nil
}

func (r *SQLiteEdgeRepo) GetByID(ctx context.Context, planID string, id int64) (*domain.DependencyEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM dependency_edges WHERE plan_id = ? AND id = ?`
	e, err := scanEdge(r.db.QueryRowContext(ctx, query, planID, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dependency edge: %w", ErrNotFound)
	}
	return e, err
}

func (r *SQLiteEdgeRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.DependencyEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM dependency_edges WHERE plan_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing dependency edges: %w", err)
	}
	defer rows.Close()

	var edges []*domain.DependencyEdge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependency edges: %w", err)
	}
	return edges, nil
}

func (r *SQLiteEdgeRepo) ReplaceAll(ctx context.Context, planID string, edges []*domain.DependencyEdge) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM dependency_edges WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("clearing dependency edges: %w", err)
	}
	for _, e := range edges {
		if err := r.Create(ctx, planID, e); err != nil {
			return err
		}
	}
	return nil
}

func scanEdge(row rowScanner) (*domain.DependencyEdge, error) {
	var e domain.DependencyEdge
	var depType string
	var hidden int
	var origFrom, origTo sql.NullInt64
	err := row.Scan(&e.ID, &e.From, &e.To, &depType, &e.LagDays, &hidden, &origFrom, &origTo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning dependency edge: %w", err)
	}
	e.Type = domain.DependencyType(depType)
	e.HiddenInternal = intToBool(hidden)
	e.OriginalFrom = nullIntToID(origFrom)
	e.OriginalTo = nullIntToID(origTo)
	return &e, nil
}
