package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// MigrationStats tracks a legacy import.
type MigrationStats struct {
	Ran       bool      `json:"ran"`
	Total     int       `json:"total"`
	Migrated  int       `json:"migrated"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Migrate imports the legacy JSON file at legacyPath into store, but only
// when store is empty and the file exists. Entries that do not parse are
// skipped; entries the store rejects are counted as failed. Neither aborts
// the import.
func Migrate(ctx context.Context, store Store, legacyPath string) (*MigrationStats, error) {
	stats := &MigrationStats{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	if legacyPath == "" {
		return stats, nil
	}
	n, err := store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	if n > 0 {
		return stats, nil
	}

	data, err := os.ReadFile(legacyPath)
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read legacy file: %w", err)
	}
	entries, err := ParseLegacyDocument(data)
	if err != nil {
		return nil, err
	}

	stats.Ran = true
	for i, raw := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Total++
		rec, err := ParseLegacyRecord(raw)
		if err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		if err := importRecord(ctx, store, rec); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		stats.Migrated++
	}
	return stats, nil
}

func importRecord(ctx context.Context, store Store, rec LegacyRecord) error {
	t, err := store.Create(ctx, rec.Text, rec.Priority)
	if err != nil {
		return err
	}
	if !rec.Completed {
		return nil
	}
	done := true
	if _, err := store.Update(ctx, t.ID, Fields{Completed: &done}); err != nil {
		// A half-imported entry would show up as pending.
		if _, derr := store.Delete(ctx, t.ID); derr != nil {
			return errors.Join(err, fmt.Errorf("remove task %d: %w", t.ID, derr))
		}
		return err
	}
	return nil
}
