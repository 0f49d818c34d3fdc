package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(StoreEnv, "")

	cfg, err := Load(filepath.Join(home, "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != BackendJSON {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendJSON)
	}
	want := filepath.Join(home, ".memo", "default.json")
	if cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if cfg.TTL.Default.Duration() != 0 {
		t.Errorf("TTL.Default = %v, want 0", cfg.TTL.Default.Duration())
	}
}

func TestLoad_SQLiteDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(StoreEnv, "")

	cfg, err := Load(writeConfig(t, "store:\n  backend: sqlite\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(home, ".memo", "default.db")
	if cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
}

func TestLoad_ParsesFields(t *testing.T) {
	t.Setenv(StoreEnv, "")
	t.Setenv("MEMO_TEST_DIR", "/tmp/memo-test")

	path := writeConfig(t, `
store:
  path: ${MEMO_TEST_DIR}/notes.json
log:
  level: debug
  json: true
clipboard:
  command: [xclip, -selection, clipboard]
ttl:
  default: 90s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Path != "/tmp/memo-test/notes.json" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "/tmp/memo-test/notes.json")
	}
	if cfg.Log.GetLevel() != "debug" || !cfg.Log.UseJSON {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if len(cfg.Clipboard.Command) != 3 || cfg.Clipboard.Command[0] != "xclip" {
		t.Errorf("Clipboard.Command = %v", cfg.Clipboard.Command)
	}
	if cfg.TTL.Default.Duration() != 90*time.Second {
		t.Errorf("TTL.Default = %v, want 90s", cfg.TTL.Default.Duration())
	}
}

func TestLoad_EnvOverridesPath(t *testing.T) {
	t.Setenv(StoreEnv, "/tmp/override.json")

	cfg, err := Load(writeConfig(t, "store:\n  path: /tmp/configured.json\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Path != "/tmp/override.json" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "/tmp/override.json")
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	if _, err := Load(writeConfig(t, "store:\n  backend: redis\n")); err == nil {
		t.Error("Load() should reject unknown backend")
	}
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	if _, err := Load(writeConfig(t, "ttl:\n  default: soon\n")); err == nil {
		t.Error("Load() should reject an unparseable duration")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MEMO_SET", "value")
	t.Setenv("MEMO_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"${MEMO_SET}", "value"},
		{"${MEMO_EMPTY:fallback}", "fallback"},
		{"${MEMO_UNSET_VAR_X}", ""},
		{"a/${MEMO_SET}/b", "a/value/b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandEnvVars(tt.in); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
