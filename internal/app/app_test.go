package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"tasklist/internal/config"
	"tasklist/pkg/task"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Backend = backend
	cfg.Store.Path = filepath.Join(dir, "tasks."+backend)
	cfg.Migration.LegacyPath = filepath.Join(dir, "tarefas.json")
	return cfg
}

func TestOpenSQLiteMigratesLegacyFile(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	legacy := `{"tarefas":[{"texto":"a","prioridade":2},{"prioridade":1},{"texto":"b","concluida":true}],"proximo_id":4}`
	if err := os.WriteFile(cfg.Migration.LegacyPath, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	s, err := OpenStore(ctx, cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	n, _ := s.Count(ctx)
	s.Close()
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	// Second start sees a non-empty table and leaves it alone.
	s, err = OpenStore(ctx, cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n, _ := s.Count(ctx); n != 2 {
		t.Errorf("count after reopen = %d, want 2", n)
	}
}

func TestOpenFileStrict(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	cfg.Store.Strict = true
	if err := os.WriteFile(cfg.Store.Path, []byte("oops"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenStore(context.Background(), cfg, log.New(io.Discard))
	if !errors.Is(err, task.ErrCorruptDocument) {
		t.Errorf("err = %v, want ErrCorruptDocument", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := testConfig(t, "redis")
	if _, err := OpenStore(context.Background(), cfg, log.New(io.Discard)); err == nil {
		t.Error("expected error")
	}
}
