package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okerlund/planfold/internal/db"
	"github.com/okerlund/planfold/internal/domain"
)

// SQLiteNodeRepo implements NodeRepo using a SQLite database.
type SQLiteNodeRepo struct {
	db db.DBTX
}

// NewSQLiteNodeRepo creates a new SQLiteNodeRepo. Pass a *sql.Tx for a
// transaction-scoped repository.
func NewSQLiteNodeRepo(dbtx db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: dbtx}
}

const nodeColumns = `id, title, kind, start_date, duration_days, percent_complete,
		row_index, center_x, center_y, parent_group_id, member_ids, collapsed,
		created_at, updated_at`

func (r *SQLiteNodeRepo) Create(ctx context.Context, planID string, n *domain.TaskNode) error {
	query := `INSERT INTO task_nodes (plan_id, ` + nodeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, nodeArgs(planID, n)...)
	if err != nil {
		return fmt.Errorf("inserting task node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, planID string, id int64) (*domain.TaskNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM task_nodes WHERE plan_id = ? AND id = ?`
	n, err := scanNode(r.db.QueryRowContext(ctx, query, planID, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task node: %w", ErrNotFound)
	}
	return n, err
}

func (r *SQLiteNodeRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.TaskNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM task_nodes WHERE plan_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing task nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.TaskNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteNodeRepo) ReplaceAll(ctx context.Context, planID string, nodes []*domain.TaskNode) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_nodes WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("clearing task nodes: %w", err)
	}
	for _, n := range nodes {
		if err := r.Create(ctx, planID, n); err != nil {
			return err
		}
	}
	return nil
}

func nodeArgs(planID string, n *domain.TaskNode) []any {
	return []any{
		planID,
		n.ID,
		n.Title,
		string(n.Kind),
		nullableTimeToString(n.Start, domain.DateLayout),
		n.DurationDays,
		n.PercentComplete,
		n.RowIndex,
		n.CenterX,
		n.CenterY,
		nullableIDToValue(n.ParentGroupID),
		joinIDs(n.MemberIDs),
		boolToInt(n.Collapsed),
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	}
}

func scanNode(row rowScanner) (*domain.TaskNode, error) {
	var n domain.TaskNode
	var kind, memberIDs, createdAt, updatedAt string
	var start sql.NullString
	var parent sql.NullInt64
	var collapsed int
	err := row.Scan(&n.ID, &n.Title, &kind, &start, &n.DurationDays, &n.PercentComplete,
		&n.RowIndex, &n.CenterX, &n.CenterY, &parent, &memberIDs, &collapsed,
		&createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task node: %w", err)
	}
	n.Kind = domain.NodeKind(kind)
	n.Start = parseNullableTime(start, domain.DateLayout)
	n.ParentGroupID = nullIntToID(parent)
	n.MemberIDs = splitIDs(memberIDs)
	n.Collapsed = intToBool(collapsed)
	n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	n.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &n, nil
}
