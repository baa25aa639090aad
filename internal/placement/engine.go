// Package placement finds free spots for idea cards on the canvas.
package placement

import (
	"io"
	"math/rand/v2"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/Goldanik/canban/internal/domain"
)

// DefaultMaxAttempts bounds the random search before falling back to the origin.
const DefaultMaxAttempts = 100

// Logger is the logging contract used for soft placement warnings.
type Logger interface {
	Warn(msg any, keyvals ...any)
}

// Result describes how a position was chosen.
type Result struct {
	Attempts  int
	Exhausted bool
	Clamped   bool
}

// Engine runs the bounded random placement search.
type Engine struct {
	rng         *rand.Rand
	maxAttempts int
	logger      Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSeed makes the search deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithMaxAttempts overrides the attempt budget.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used for exhaustion warnings.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs a new value for this package.
func New(opts ...Option) *Engine {
	now := uint64(time.Now().UnixNano())
	e := &Engine{
		rng:         rand.New(rand.NewPCG(now, now>>1)),
		maxAttempts: DefaultMaxAttempts,
		logger:      charmLog.New(io.Discard),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// MaxAttempts returns the configured attempt budget.
func (e *Engine) MaxAttempts() int {
	return e.maxAttempts
}

// Place picks a top-left position for a card of the given footprint inside
// bounds that overlaps none of occupied. A footprint that does not fit the
// bounds on either axis goes to the origin without searching. When every
// attempt collides the origin is returned and the result is marked exhausted.
func (e *Engine) Place(footprint, bounds domain.Size, occupied []domain.Rect) (domain.Point, Result) {
	if bounds.W < footprint.W || bounds.H < footprint.H {
		return domain.Point{}, Result{Attempts: 1, Clamped: true}
	}
	spanX := bounds.W - footprint.W
	spanY := bounds.H - footprint.H
	res := Result{}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		candidate := domain.Point{X: e.rng.IntN(spanX + 1), Y: e.rng.IntN(spanY + 1)}
		res.Attempts = attempt
		if !collides(domain.RectAt(candidate, footprint), occupied) {
			return candidate, res
		}
	}

	res.Exhausted = true
	e.logger.Warn(
		"placement exhausted",
		"attempts", res.Attempts,
		"occupied", len(occupied),
		"bounds_w", bounds.W,
		"bounds_h", bounds.H,
	)
	return domain.Point{}, res
}

// collides reports whether r intersects any occupied rectangle.
func collides(r domain.Rect, occupied []domain.Rect) bool {
	for _, o := range occupied {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}
