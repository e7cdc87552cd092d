package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeLegacy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tarefas.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMigrateSkipsInvalidEntries(t *testing.T) {
	legacy := writeLegacy(t, `{
  "tarefas": [
    {"id": 1, "texto": "Estudar Go", "concluida": false, "prioridade": 2},
    {"id": 2, "prioridade": 1, "concluida": true},
    {"id": 3, "title": "Ler documentação", "concluida": true}
  ],
  "proximo_id": 4
}`)

	eachStore(t, func(t *testing.T, s Store, reopen func() Store) {
		ctx := context.Background()
		stats, err := Migrate(ctx, s, legacy)
		if err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		if !stats.Ran || stats.Total != 3 || stats.Migrated != 2 || stats.Skipped != 1 || stats.Failed != 0 {
			t.Errorf("stats = %+v", stats)
		}
		if len(stats.Errors) != 1 {
			t.Errorf("errors = %v", stats.Errors)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Fatalf("migrated %d records, want 2", len(list))
		}
		if list[0].Text != "Estudar Go" || list[0].Priority != High || list[0].Completed {
			t.Errorf("first = %+v", list[0])
		}
		if list[1].Text != "Ler documentação" || list[1].Priority != Medium || !list[1].Completed {
			t.Errorf("second = %+v", list[1])
		}
	})
}

func TestMigrateOnlyIntoEmptyStore(t *testing.T) {
	legacy := writeLegacy(t, `[{"text":"a"},{"text":"b"}]`)

	eachStore(t, func(t *testing.T, s Store, reopen func() Store) {
		ctx := context.Background()
		if _, err := s.Create(ctx, "existing", Medium); err != nil {
			t.Fatal(err)
		}
		stats, err := Migrate(ctx, s, legacy)
		if err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		if stats.Ran {
			t.Error("migration must not run into a non-empty store")
		}
		if n, _ := s.Count(ctx); n != 1 {
			t.Errorf("count = %d, want 1", n)
		}
	})
}

func TestMigrateRerunsAfterManualEmpty(t *testing.T) {
	legacy := writeLegacy(t, `[{"text":"a"}]`)
	s, _ := openFile(t)
	ctx := context.Background()

	if _, err := Migrate(ctx, s, legacy); err != nil {
		t.Fatal(err)
	}
	list, _ := s.List(ctx)
	for _, task := range list {
		s.Delete(ctx, task.ID)
	}
	stats, err := Migrate(ctx, s, legacy)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Ran || stats.Migrated != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestMigrateMissingFile(t *testing.T) {
	s, _ := openFile(t)
	stats, err := Migrate(context.Background(), s, filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if stats.Ran {
		t.Error("nothing to migrate")
	}
	if stats, _ := Migrate(context.Background(), s, ""); stats.Ran {
		t.Error("empty path should not run")
	}
}

func TestMigrateMalformedDocumentFails(t *testing.T) {
	legacy := writeLegacy(t, `{"tarefas": [`)
	s, _ := openFile(t)
	if _, err := Migrate(context.Background(), s, legacy); err == nil {
		t.Fatal("expected error for malformed legacy document")
	}
	if n, _ := s.Count(context.Background()); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

// updateFailStore wraps a real store and fails every Update.
type updateFailStore struct {
	Store
	err error
}

func (s updateFailStore) Update(context.Context, int64, Fields) (*Task, error) {
	return nil, s.err
}

func TestMigrateDropsEntryWhenCompleteFails(t *testing.T) {
	legacy := writeLegacy(t, `[{"text":"open"},{"text":"finished","done":true}]`)
	base, _ := openFile(t)
	boom := errors.New("disk full")
	store := updateFailStore{Store: base, err: boom}

	ctx := context.Background()
	stats, err := Migrate(ctx, store, legacy)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if stats.Migrated != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	list, _ := base.List(ctx)
	if len(list) != 1 || list[0].Text != "open" {
		t.Errorf("store = %+v, want only the pending entry", list)
	}
}
