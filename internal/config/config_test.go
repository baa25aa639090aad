package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cfg.Board.States) != 3 || cfg.Board.States[1].Name != "In Progress" {
		t.Fatalf("unexpected default states %#v", cfg.Board.States)
	}
	if cfg.Canvas.ID != "ideas" || cfg.Card.Width != 18 || cfg.Card.Height != 3 {
		t.Fatalf("unexpected canvas/card defaults %#v %#v", cfg.Canvas, cfg.Card)
	}
	if cfg.Placement.MaxAttempts != 100 {
		t.Fatalf("unexpected max attempts %d", cfg.Placement.MaxAttempts)
	}
	if cfg.HoldDelay() != time.Second || cfg.DoubleClickWindow() != 200*time.Millisecond {
		t.Fatalf("unexpected drag timings %v %v", cfg.HoldDelay(), cfg.DoubleClickWindow())
	}
	if cfg.StorageBackend() != BackendMemory {
		t.Fatalf("unexpected backend %q", cfg.StorageBackend())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Canvas.Name != defaults.Canvas.Name || cfg.Storage.Backend != defaults.Storage.Backend {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if cfg, err := Load("", defaults); err != nil || cfg.Card != defaults.Card {
		t.Fatalf("Load(\"\") = %#v, %v", cfg.Card, err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[canvas]
width = 120
height = 40

[card]
width = 24

[placement]
max_attempts = 20
seed = 42

[drag]
hold_delay = "750ms"

[storage]
backend = "sqlite"

[[board.states]]
id = "backlog"
name = "Backlog"
position = 0

[[board.states]]
id = "done"
name = "Done"
position = 1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Canvas.Width != 120 || cfg.Canvas.Height != 40 || cfg.Canvas.ID != "ideas" {
		t.Fatalf("unexpected canvas %#v", cfg.Canvas)
	}
	if cfg.Card.Width != 24 || cfg.Card.Height != 3 {
		t.Fatalf("unexpected card %#v", cfg.Card)
	}
	if cfg.Placement.MaxAttempts != 20 || cfg.Placement.Seed != 42 {
		t.Fatalf("unexpected placement %#v", cfg.Placement)
	}
	if cfg.HoldDelay() != 750*time.Millisecond || cfg.DoubleClickWindow() != 200*time.Millisecond {
		t.Fatalf("unexpected drag timings %v %v", cfg.HoldDelay(), cfg.DoubleClickWindow())
	}
	if cfg.StorageBackend() != BackendSQLite {
		t.Fatalf("unexpected backend %q", cfg.StorageBackend())
	}
	if len(cfg.Board.States) != 2 || cfg.Board.States[0].ID != "backlog" {
		t.Fatalf("expected configured states to replace defaults, got %#v", cfg.Board.States)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"backend": `
[storage]
backend = "postgres"
`,
		"duration": `
[drag]
hold_delay = "soon"
`,
		"negative duration": `
[drag]
double_click_window = "-1s"
`,
		"card size": `
[card]
width = 0
`,
		"attempts": `
[placement]
max_attempts = 0
`,
		"log level": `
[logging]
level = "chatty"
`,
		"canvas clashes with column": `
[canvas]
id = "todo"
`,
		"duplicate state": `
[[board.states]]
id = "a"
name = "A"

[[board.states]]
id = "A"
name = "Again"
`,
		"malformed toml": `[card`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path, Default()); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendSQLite
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(out), "backend = 'sqlite'") {
		t.Fatalf("expected backend in encoded config, got:\n%s", out)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	loaded, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.StorageBackend() != BackendSQLite || len(loaded.Board.States) != 3 {
		t.Fatalf("unexpected reloaded config %#v", loaded)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
