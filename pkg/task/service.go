package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Stats summarizes the list.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Service holds the caller-facing task operations on top of a Store.
type Service struct {
	store  Store
	logger *log.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for mutation records.
func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a pending task. A nil priority means medium.
func (s *Service) Add(ctx context.Context, text string, priority *int) (*Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	t, err := s.store.Create(ctx, text, PriorityFrom(priority))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("task added", "id", t.ID, "priority", t.Priority)
	return t, nil
}

// Complete marks a task done. It reports false for an unknown id.
func (s *Service) Complete(ctx context.Context, id int64) (bool, error) {
	t, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if t.Completed {
		return true, nil
	}
	done := true
	if _, err := s.store.Update(ctx, id, Fields{Completed: &done}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	s.logger.Debug("task completed", "id", id)
	return true, nil
}

// Edit updates the supplied fields. Blank text leaves the text unchanged.
func (s *Service) Edit(ctx context.Context, id int64, text *string, priority *int) (*Task, error) {
	var f Fields
	if text != nil && strings.TrimSpace(*text) != "" {
		f.Text = text
	}
	if priority != nil {
		p := ClampPriority(*priority)
		f.Priority = &p
	}
	t, err := s.store.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("task edited", "id", id)
	return t, nil
}

// Remove deletes a task. An unknown id is not an error.
func (s *Service) Remove(ctx context.Context, id int64) error {
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Debug("task removed", "id", id, "existed", existed)
	return nil
}

// Get returns a single task.
func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.store.Get(ctx, id)
}

// List returns every task, pending first, then by priority, newest first.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	Sort(tasks)
	return tasks, nil
}

// Stats counts tasks by completion.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	return st, nil
}
