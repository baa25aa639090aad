package tui

import (
	"time"

	"github.com/atotto/clipboard"

	"github.com/Goldanik/canban/internal/drag"
)

// KeyConfig holds configurable key overrides. Blank fields keep defaults.
type KeyConfig struct {
	NewIdea      string
	EditCard     string
	CopyPayload  string
	PastePayload string
	CardInfo     string
	ActivityLog  string
}

// RuntimeConfig holds settings supplied by the command layer.
type RuntimeConfig struct {
	Keys KeyConfig
	Drag drag.Config
	// FixedCanvas keeps the configured canvas bounds instead of following the terminal.
	FixedCanvas bool
}

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// systemClipboard delegates to the platform clipboard tools.
type systemClipboard struct{}

// WriteAll writes text to the system clipboard.
func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ReadAll reads the system clipboard.
func (systemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

type Option func(*Model)

func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		m.keys = newKeyMap()
		m.keys.applyConfig(cfg.Keys)
		m.dragCfg = cfg.Drag
		m.fixedCanvas = cfg.FixedCanvas
	}
}

func WithClipboard(cb Clipboard) Option {
	return func(m *Model) {
		if cb != nil {
			m.clipboard = cb
		}
	}
}

// WithClock overrides the time source used for double-click detection.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}
