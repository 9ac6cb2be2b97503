package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/prepdesk/internal/db"
	"github.com/alexanderramin/prepdesk/internal/domain"
)

// SQLiteProjectIndexRepo implements ProjectIndexRepo on project_summaries.
type SQLiteProjectIndexRepo struct {
	db db.DBTX
}

// NewSQLiteProjectIndexRepo creates a new SQLiteProjectIndexRepo.
func NewSQLiteProjectIndexRepo(conn db.DBTX) *SQLiteProjectIndexRepo {
	return &SQLiteProjectIndexRepo{db: conn}
}

const summaryColumns = `id, title, last_modified_at, note_count, item_count, outline_block_count, has_context`

func (r *SQLiteProjectIndexRepo) Upsert(ctx context.Context, s *domain.ProjectSummary) error {
	query := `INSERT INTO project_summaries (` + summaryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			last_modified_at = excluded.last_modified_at,
			note_count = excluded.note_count,
			item_count = excluded.item_count,
			outline_block_count = excluded.outline_block_count,
			has_context = excluded.has_context`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Title,
		formatTime(s.LastModifiedAt),
		s.NoteCount,
		s.ItemCount,
		s.OutlineBlockCount,
		boolToInt(s.HasContext),
	)
	if err != nil {
		return fmt.Errorf("upserting project summary: %w", err)
	}
	return nil
}

func (r *SQLiteProjectIndexRepo) GetByID(ctx context.Context, id string) (*domain.ProjectSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM project_summaries WHERE id = ?`
	s, err := scanSummary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteProjectIndexRepo) List(ctx context.Context) ([]*domain.ProjectSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM project_summaries
		ORDER BY last_modified_at DESC, title, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing project summaries: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProjectSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project summaries: %w", err)
	}
	return out, nil
}

func (r *SQLiteProjectIndexRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_summaries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project summary: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting project summary: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSummary scans one row from either *sql.Row or *sql.Rows. sql.ErrNoRows
// is passed through as is.
func scanSummary(row rowScanner) (*domain.ProjectSummary, error) {
	var s domain.ProjectSummary
	var modified string
	var hasContext int
	err := row.Scan(
		&s.ID, &s.Title, &modified,
		&s.NoteCount, &s.ItemCount, &s.OutlineBlockCount,
		&hasContext,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project summary: %w", err)
	}
	s.LastModifiedAt, err = parseTime(modified)
	if err != nil {
		return nil, fmt.Errorf("parsing last_modified_at: %w", err)
	}
	s.HasContext = intToBool(hasContext)
	return &s, nil
}
