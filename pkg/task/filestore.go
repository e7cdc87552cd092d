package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// document is the on-disk layout of a FileStore.
type document struct {
	Tasks  []Task `json:"tasks"`
	NextID int64  `json:"next_id"`
}

// FileStoreOptions configures OpenFileStore.
type FileStoreOptions struct {
	// Strict makes a malformed document an error instead of resetting to empty.
	Strict bool
	Logger *log.Logger
}

// FileStore keeps every task in a single JSON document, rewritten on each mutation.
type FileStore struct {
	mu     sync.Mutex
	path   string
	doc    document
	logger *log.Logger
}

// OpenFileStore loads the document at path, creating it when missing.
func OpenFileStore(path string, opts FileStoreOptions) (*FileStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &FileStore{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.doc = document{Tasks: []Task{}, NextID: 1}
		if err := s.save(s.doc); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err == nil {
		s.doc, err = decodeDocument(data)
	}
	if err != nil {
		if opts.Strict {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, path, err)
		}
		logger.Warn("task document unreadable, starting empty", "path", path, "err", err)
		s.doc = document{Tasks: []Task{}, NextID: 1}
	}
	return s, nil
}

func decodeDocument(data []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	if doc.Tasks == nil {
		doc.Tasks = []Task{}
	}
	seen := make(map[int64]bool, len(doc.Tasks))
	next := doc.NextID
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if t.ID <= 0 || seen[t.ID] {
			return document{}, fmt.Errorf("invalid or duplicate id %d", t.ID)
		}
		seen[t.ID] = true
		t.Priority = ClampPriority(int(t.Priority))
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	if next < 1 {
		next = 1
	}
	doc.NextID = next
	return doc, nil
}

// save writes doc to a temp file beside the target and renames it into place.
func (s *FileStore) save(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// commit persists next and makes it the current state only if the write succeeds.
func (s *FileStore) commit(next document) error {
	if err := s.save(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *FileStore) clone() document {
	tasks := make([]Task, len(s.doc.Tasks))
	copy(tasks, s.doc.Tasks)
	return document{Tasks: tasks, NextID: s.doc.NextID}
}

func (s *FileStore) index(id int64) int {
	for i := range s.doc.Tasks {
		if s.doc.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Create appends a new pending task.
func (s *FileStore) Create(_ context.Context, text string, priority Priority) (*Task, error) {
	if err := checkText(text); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := now()
	t := Task{
		ID:        s.doc.NextID,
		Text:      text,
		Priority:  ClampPriority(int(priority)),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	next := s.clone()
	next.Tasks = append(next.Tasks, t)
	next.NextID++
	if err := s.commit(next); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// Get retrieves a single task by ID.
func (s *FileStore) Get(_ context.Context, id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	t := s.doc.Tasks[i]
	return &t, nil
}

// Update applies the non-nil fields of f.
func (s *FileStore) Update(_ context.Context, id int64, f Fields) (*Task, error) {
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	if f.empty() {
		t := s.doc.Tasks[i]
		return &t, nil
	}
	next := s.clone()
	t := &next.Tasks[i]
	f.apply(t)
	t.UpdatedAt = now()
	if err := s.commit(next); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	out := *t
	return &out, nil
}

// Delete removes a task, reporting whether it existed.
func (s *FileStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	next := s.clone()
	next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
	if err := s.commit(next); err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return true, nil
}

// List returns all tasks in insertion order.
func (s *FileStore) List(_ context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clone().Tasks, nil
}

// Count returns total task count.
func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Tasks), nil
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error { return nil }
