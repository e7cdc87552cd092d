package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore. Close releases the pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id         BIGSERIAL PRIMARY KEY,
			text       TEXT NOT NULL CHECK (btrim(text) <> ''),
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			priority   INTEGER NOT NULL DEFAULT 1 CHECK (priority BETWEEN 0 AND 2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_order ON tasks(completed, priority DESC, id DESC)`)
	return err
}

const pgColumns = `id, text, completed, priority, created_at, updated_at`

// Create inserts a new task.
func (s *PgStore) Create(ctx context.Context, text string, priority Priority) (*Task, error) {
	if err := checkText(text); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	ts := now()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (text, completed, priority, created_at, updated_at)
		VALUES ($1, FALSE, $2, $3, $3)
		RETURNING `+pgColumns,
		text, int(ClampPriority(int(priority))), ts)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Get retrieves a single task by ID.
func (s *PgStore) Get(ctx context.Context, id int64) (*Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Update modifies the supplied fields and bumps updated_at.
func (s *PgStore) Update(ctx context.Context, id int64, f Fields) (*Task, error) {
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if f.empty() {
		return s.Get(ctx, id)
	}

	// Build SET clause dynamically
	setClauses := "updated_at = $1"
	args := []any{now()}
	argIdx := 2

	if f.Text != nil {
		setClauses += fmt.Sprintf(", text = $%d", argIdx)
		args = append(args, *f.Text)
		argIdx++
	}
	if f.Priority != nil {
		setClauses += fmt.Sprintf(", priority = $%d", argIdx)
		args = append(args, int(ClampPriority(int(*f.Priority))))
		argIdx++
	}
	if f.Completed != nil {
		setClauses += fmt.Sprintf(", completed = $%d", argIdx)
		args = append(args, *f.Completed)
		argIdx++
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d RETURNING %s", setClauses, argIdx, pgColumns)

	t, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

// Delete removes a task, reporting whether it existed.
func (s *PgStore) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns all tasks by id.
func (s *PgStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// Count returns total task count.
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

// Close releases the connection pool.
func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}
