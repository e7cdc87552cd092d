package task

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrTextRequired is returned when a task would be written with blank text.
	ErrTextRequired = errors.New("text is required")
	// ErrCorruptDocument is returned by a strict file store whose document cannot be loaded.
	ErrCorruptDocument = errors.New("corrupt task document")
)

// Task is a single entry in the list.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields holds a partial update. Nil fields are left unchanged.
type Fields struct {
	Text      *string
	Priority  *Priority
	Completed *bool
}

func (f Fields) empty() bool {
	return f.Text == nil && f.Priority == nil && f.Completed == nil
}

func (f Fields) validate() error {
	if f.Text != nil {
		return checkText(*f.Text)
	}
	return nil
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}
	return nil
}

func (f Fields) apply(t *Task) {
	if f.Text != nil {
		t.Text = *f.Text
	}
	if f.Priority != nil {
		t.Priority = ClampPriority(int(*f.Priority))
	}
	if f.Completed != nil {
		t.Completed = *f.Completed
	}
}

// Store is the contract for task persistence.
type Store interface {
	Create(ctx context.Context, text string, priority Priority) (*Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Update(ctx context.Context, id int64, f Fields) (*Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]Task, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
