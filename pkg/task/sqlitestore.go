package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLiteStore is a SQLite-backed task store. The caller opens the *sql.DB
// (see internal/db.OpenSQLite) and the store takes ownership of it.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *SQLiteStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			text       TEXT NOT NULL CHECK (length(trim(text)) > 0),
			completed  BOOLEAN NOT NULL DEFAULT 0,
			priority   INTEGER NOT NULL DEFAULT 1 CHECK (priority BETWEEN 0 AND 2),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_order ON tasks(completed, priority DESC, id DESC)`)
	return err
}

const sqliteColumns = `id, text, completed, priority, created_at, updated_at`

// Create inserts a new task.
func (s *SQLiteStore) Create(ctx context.Context, text string, priority Priority) (*Task, error) {
	if err := checkText(text); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	ts := now()
	t := &Task{
		Text:      text,
		Priority:  ClampPriority(int(priority)),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (text, completed, priority, created_at, updated_at)
		VALUES (?, 0, ?, ?, ?)`,
		t.Text, int(t.Priority), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create task: last insert id: %w", err)
	}
	return t, nil
}

// Get retrieves a single task by ID.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Update modifies the supplied fields and bumps updated_at.
func (s *SQLiteStore) Update(ctx context.Context, id int64, f Fields) (*Task, error) {
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if f.empty() {
		return s.Get(ctx, id)
	}

	sets := []string{"updated_at = ?"}
	args := []any{now()}
	if f.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *f.Text)
	}
	if f.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, int(ClampPriority(int(*f.Priority))))
	}
	if f.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *f.Completed)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes a task, reporting whether it existed.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return n > 0, nil
}

// List returns all tasks by id.
func (s *SQLiteStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// Count returns total task count.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
