package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "TASKS_ADDR", "TASKS_BACKEND", "TASKS_PATH", "DATABASE_URL", "TASKS_STRICT", "TASKS_LEGACY_PATH", "TASKS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Server.Addr != ":5000" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Store.Strict {
		t.Error("strict should default to false")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
addr = "127.0.0.1:9000"

[store]
backend = "file"
path = "/tmp/tasks.json"
strict = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendFile || cfg.Store.Path != "/tmp/tasks.json" || !cfg.Store.Strict {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Migration.LegacyPath != "tarefas.json" {
		t.Errorf("legacy path = %q", cfg.Migration.LegacyPath)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("TASKS_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("TASKS_STRICT", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8081" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendPostgres || cfg.Store.DatabaseURL != "postgres://localhost/tasks" || !cfg.Store.Strict {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"TASKS_BACKEND": "redis"}, "unknown store backend"},
		{"postgres without url", map[string]string{"TASKS_BACKEND": "postgres"}, "database_url"},
		{"bad strict", map[string]string{"TASKS_STRICT": "maybe"}, "TASKS_STRICT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Store.Backend = BackendFile
	cfg.Store.Path = "/var/lib/tasks.json"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Store != cfg.Store {
		t.Errorf("store = %+v, want %+v", got.Store, cfg.Store)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandPath("~/tasks.db"); got != filepath.Join(home, "tasks.db") {
		t.Errorf("expandPath = %q", got)
	}
	if got := expandPath("/abs/tasks.db"); got != "/abs/tasks.db" {
		t.Errorf("expandPath = %q", got)
	}
}
