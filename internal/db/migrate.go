package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// re-runs that hit an existing column are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'active'
		             CHECK(status IN ('active','archived')),
		next_node_id INTEGER NOT NULL DEFAULT 1,
		next_edge_id INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_nodes (
		plan_id          TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		id               INTEGER NOT NULL,
		title            TEXT NOT NULL,
		kind             TEXT NOT NULL
		                 CHECK(kind IN ('task','milestone','group','resource')),
		start_date       TEXT,
		duration_days    INTEGER NOT NULL DEFAULT 0,
		percent_complete INTEGER NOT NULL DEFAULT 0,
		row_index        INTEGER NOT NULL DEFAULT -1,
		center_x         REAL NOT NULL DEFAULT 0,
		center_y         REAL NOT NULL DEFAULT 0,
		parent_group_id  INTEGER,
		member_ids       TEXT NOT NULL DEFAULT '',
		collapsed        INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		PRIMARY KEY (plan_id, id)
	)`,

	`CREATE TABLE IF NOT EXISTS dependency_edges (
		plan_id         TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		id              INTEGER NOT NULL,
		from_id         INTEGER NOT NULL,
		to_id           INTEGER NOT NULL,
		dep_type        TEXT NOT NULL DEFAULT 'FS'
		                CHECK(dep_type IN ('FS','SS','FF','SF')),
		lag_days        INTEGER NOT NULL DEFAULT 0,
		hidden_internal INTEGER NOT NULL DEFAULT 0,
		original_from   INTEGER,
		original_to     INTEGER,
		PRIMARY KEY (plan_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_nodes_plan ON task_nodes(plan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependency_edges_plan ON dependency_edges(plan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependency_edges_from ON dependency_edges(plan_id, from_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependency_edges_to ON dependency_edges(plan_id, to_id)`,
}
