package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Durable key-value slots. Workspace snapshots live under workspace/<id>,
	// the active note under selection/<id>.
	`CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_summaries (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		last_modified_at TEXT NOT NULL,
		note_count       INTEGER NOT NULL DEFAULT 0 CHECK(note_count >= 0),
		has_context      INTEGER NOT NULL DEFAULT 0 CHECK(has_context IN (0,1))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_project_summaries_modified ON project_summaries(last_modified_at)`,

	// Item and outline counts were added after the first release.
	`ALTER TABLE project_summaries ADD COLUMN item_count INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE project_summaries ADD COLUMN outline_block_count INTEGER NOT NULL DEFAULT 0`,
}
