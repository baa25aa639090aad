package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	Board     BoardConfig     `toml:"board"`
	Canvas    CanvasConfig    `toml:"canvas"`
	Card      CardConfig      `toml:"card"`
	Placement PlacementConfig `toml:"placement"`
	Drag      DragConfig      `toml:"drag"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Keys      KeyConfig       `toml:"keys"`
}

type BoardConfig struct {
	States []StateConfig `toml:"states"`
}

type StateConfig struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Position int    `toml:"position"`
}

// CanvasConfig sizes the idea canvas. Zero width or height follows the terminal.
type CanvasConfig struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type CardConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// PlacementConfig tunes the random placement search. Seed 0 means time-seeded.
type PlacementConfig struct {
	MaxAttempts int    `toml:"max_attempts"`
	Seed        uint64 `toml:"seed"`
}

type DragConfig struct {
	HoldDelay         string `toml:"hold_delay"`
	DoubleClickWindow string `toml:"double_click_window"`
	MoveThreshold     int    `toml:"move_threshold"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // memory | sqlite
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	NewIdea      string `toml:"new_idea"`
	EditCard     string `toml:"edit_card"`
	CopyPayload  string `toml:"copy_payload"`
	PastePayload string `toml:"paste_payload"`
	CardInfo     string `toml:"card_info"`
	ActivityLog  string `toml:"activity_log"`
}

func defaultStates() []StateConfig {
	return []StateConfig{
		{ID: "todo", Name: "To Do", Position: 0},
		{ID: "progress", Name: "In Progress", Position: 1},
		{ID: "done", Name: "Done", Position: 2},
	}
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			States: defaultStates(),
		},
		Canvas: CanvasConfig{
			ID:   "ideas",
			Name: "Ideas",
		},
		Card: CardConfig{
			Width:  18,
			Height: 3,
		},
		Placement: PlacementConfig{
			MaxAttempts: 100,
		},
		Drag: DragConfig{
			HoldDelay:         "1s",
			DoubleClickWindow: "200ms",
			MoveThreshold:     1,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
			},
		},
		Keys: KeyConfig{
			NewIdea:      "n",
			EditCard:     "e",
			CopyPayload:  "y",
			PastePayload: "p",
			CardInfo:     "i",
			ActivityLog:  "g",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return out, nil
}

func (c Config) Validate() error {
	if len(c.Board.States) == 0 {
		return errors.New("board.states must include at least one state")
	}
	canvasID := strings.TrimSpace(strings.ToLower(c.Canvas.ID))
	if canvasID == "" {
		return errors.New("canvas.id is required")
	}
	if strings.TrimSpace(c.Canvas.Name) == "" {
		return errors.New("canvas.name is required")
	}
	seenStateID := map[string]struct{}{canvasID: {}}
	for idx, state := range c.Board.States {
		id := strings.TrimSpace(strings.ToLower(state.ID))
		if id == "" {
			return fmt.Errorf("board.states[%d].id is required", idx)
		}
		if strings.TrimSpace(state.Name) == "" {
			return fmt.Errorf("board.states[%d].name is required", idx)
		}
		if state.Position < 0 {
			return fmt.Errorf("board.states[%d].position must be >= 0", idx)
		}
		if _, ok := seenStateID[id]; ok {
			return fmt.Errorf("board.states[%d].id is duplicated: %s", idx, id)
		}
		seenStateID[id] = struct{}{}
	}

	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return errors.New("canvas.width and canvas.height must be >= 0")
	}
	if c.Card.Width <= 0 || c.Card.Height <= 0 {
		return errors.New("card.width and card.height must be > 0")
	}
	if c.Placement.MaxAttempts <= 0 {
		return errors.New("placement.max_attempts must be > 0")
	}

	if _, err := parsePositiveDuration("drag.hold_delay", c.Drag.HoldDelay); err != nil {
		return err
	}
	if _, err := parsePositiveDuration("drag.double_click_window", c.Drag.DoubleClickWindow); err != nil {
		return err
	}
	if c.Drag.MoveThreshold <= 0 {
		return errors.New("drag.move_threshold must be > 0")
	}

	switch strings.TrimSpace(strings.ToLower(c.Storage.Backend)) {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}

	if _, err := charmLog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// HoldDelay returns the parsed press-and-hold delay.
func (c Config) HoldDelay() time.Duration {
	d, _ := parsePositiveDuration("drag.hold_delay", c.Drag.HoldDelay)
	return d
}

// DoubleClickWindow returns the parsed double-click window.
func (c Config) DoubleClickWindow() time.Duration {
	d, _ := parsePositiveDuration("drag.double_click_window", c.Drag.DoubleClickWindow)
	return d
}

// StorageBackend returns the normalized backend name.
func (c Config) StorageBackend() string {
	return strings.TrimSpace(strings.ToLower(c.Storage.Backend))
}

// parsePositiveDuration parses one duration field.
func parsePositiveDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", field)
	}
	return d, nil
}

// EnsureConfigDir creates the parent directory of a config file path.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
