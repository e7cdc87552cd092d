package task

import "fmt"

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one row laid out as id, text, completed, priority, created_at, updated_at.
func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var priority int
	if err := row.Scan(&t.ID, &t.Text, &t.Completed, &priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Priority = ClampPriority(priority)
	return &t, nil
}

func scanTaskRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Task, error) {
	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}
