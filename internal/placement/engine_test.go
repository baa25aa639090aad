package placement

import (
	"testing"

	"github.com/Goldanik/canban/internal/domain"
)

// recordingLogger captures warnings.
type recordingLogger struct {
	warnings []string
}

// Warn records a warning message.
func (l *recordingLogger) Warn(msg any, _ ...any) {
	l.warnings = append(l.warnings, msg.(string))
}

func TestPlaceAvoidsOccupiedCards(t *testing.T) {
	footprint := domain.Size{W: 10, H: 3}
	bounds := domain.Size{W: 80, H: 30}
	for seed := uint64(1); seed <= 500; seed++ {
		e := New(WithSeed(seed))
		first, res := e.Place(footprint, bounds, nil)
		if res.Exhausted || res.Attempts != 1 {
			t.Fatalf("seed %d: expected first card on first attempt, got %#v", seed, res)
		}
		occupied := []domain.Rect{domain.RectAt(first, footprint)}
		second, res := e.Place(footprint, bounds, occupied)
		if res.Exhausted {
			t.Fatalf("seed %d: unexpected exhaustion", seed)
		}
		if domain.RectAt(second, footprint).Intersects(occupied[0]) {
			t.Fatalf("seed %d: %v overlaps %v", seed, second, first)
		}
		for _, p := range []domain.Point{first, second} {
			if p.X < 0 || p.Y < 0 || p.X+footprint.W > bounds.W || p.Y+footprint.H > bounds.H {
				t.Fatalf("seed %d: %v leaves the canvas", seed, p)
			}
		}
	}
}

func TestPlaceClampsDegenerateSpace(t *testing.T) {
	e := New(WithSeed(7))
	footprint := domain.Size{W: 150, H: 30}
	occupied := []domain.Rect{domain.RectAt(domain.Point{}, footprint)}
	for _, bounds := range []domain.Size{{W: 50, H: 50}, {W: 50, H: 20}, {W: 200, H: 10}} {
		for i := 0; i < 50; i++ {
			p, res := e.Place(footprint, bounds, occupied)
			if p != (domain.Point{}) {
				t.Fatalf("bounds %v call %d: expected origin, got %v", bounds, i, p)
			}
			if !res.Clamped || res.Exhausted || res.Attempts != 1 {
				t.Fatalf("bounds %v call %d: unexpected result %#v", bounds, i, res)
			}
		}
	}
}

func TestPlaceFallsBackToOriginWhenExhausted(t *testing.T) {
	logger := &recordingLogger{}
	e := New(WithSeed(3), WithMaxAttempts(25), WithLogger(logger))
	bounds := domain.Size{W: 20, H: 10}
	occupied := []domain.Rect{domain.RectAt(domain.Point{}, bounds)}

	p, res := e.Place(domain.Size{W: 4, H: 2}, bounds, occupied)
	if p != (domain.Point{}) {
		t.Fatalf("expected origin fallback, got %v", p)
	}
	if !res.Exhausted || res.Attempts != 25 {
		t.Fatalf("unexpected result %#v", res)
	}
	if len(logger.warnings) != 1 || logger.warnings[0] != "placement exhausted" {
		t.Fatalf("expected one exhaustion warning, got %#v", logger.warnings)
	}
}

func TestPlaceIsDeterministicForSeed(t *testing.T) {
	a := New(WithSeed(42))
	b := New(WithSeed(42))
	for i := 0; i < 20; i++ {
		pa, _ := a.Place(domain.Size{W: 5, H: 2}, domain.Size{W: 60, H: 20}, nil)
		pb, _ := b.Place(domain.Size{W: 5, H: 2}, domain.Size{W: 60, H: 20}, nil)
		if pa != pb {
			t.Fatalf("iteration %d: %v != %v", i, pa, pb)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	e := New(WithMaxAttempts(0), WithLogger(nil), nil)
	if e.MaxAttempts() != DefaultMaxAttempts {
		t.Fatalf("expected default attempts, got %d", e.MaxAttempts())
	}
}
