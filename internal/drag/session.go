// Package drag tracks the press, hold and release lifecycle of a card drag.
package drag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Goldanik/canban/internal/domain"
)

// Default timings.
const (
	DefaultHoldDelay         = time.Second
	DefaultDoubleClickWindow = 200 * time.Millisecond
	DefaultMoveThreshold     = 1
)

// ErrNotDragging reports a release with no press or drag to end.
var ErrNotDragging = errors.New("no drag in progress")

// State is the session phase.
type State int

// State values.
const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Outcome classifies what a release (or double-click) produced.
type Outcome int

// Outcome values.
const (
	OutcomeNone Outcome = iota
	OutcomeClick
	OutcomeEdit
	OutcomeDropped
	OutcomeReturned
)

// Target is the board-side contract the session drives.
type Target interface {
	Lift(ctx context.Context, cardID string) (domain.Payload, error)
	Return(ctx context.Context, cardID string) error
	Accept(ctx context.Context, containerID domain.ContainerID, payload string) error
}

// Config holds session timings. Zero values select defaults.
type Config struct {
	HoldDelay         time.Duration
	DoubleClickWindow time.Duration
	MoveThreshold     int
}

// Result reports the effect of a release.
type Result struct {
	Outcome Outcome
	CardID  string
	Origin  domain.ContainerID
	Target  domain.ContainerID
	// Err is the drop rejection reason when the card was returned.
	Err error
}

// Session is the per-board drag state machine. It is not safe for concurrent use.
type Session struct {
	cfg    Config
	target Target

	state   State
	token   uint64
	cardID  string
	origin  domain.ContainerID
	pressAt domain.Point
	travel  int
	payload domain.Payload

	lastClickCard string
	lastClickAt   time.Time
}

// New constructs a new value for this package.
func New(target Target, cfg Config) *Session {
	if cfg.HoldDelay <= 0 {
		cfg.HoldDelay = DefaultHoldDelay
	}
	if cfg.DoubleClickWindow <= 0 {
		cfg.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if cfg.MoveThreshold <= 0 {
		cfg.MoveThreshold = DefaultMoveThreshold
	}
	return &Session{cfg: cfg, target: target}
}

// Config returns the effective timings.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// CardID returns the armed or dragged card id.
func (s *Session) CardID() string {
	return s.cardID
}

// Origin returns the container the card was pressed in.
func (s *Session) Origin() domain.ContainerID {
	return s.origin
}

// Payload returns the snapshot taken when the drag started.
func (s *Session) Payload() domain.Payload {
	return s.payload
}

// Press arms the session for cardID and returns the hold timer token. The
// caller schedules HoldElapsed with that token after HoldDelay. A press while
// already dragging is ignored and returns zero.
func (s *Session) Press(cardID string, origin domain.ContainerID, at domain.Point) uint64 {
	if s.state == StateDragging {
		return 0
	}
	s.token++
	s.state = StateArmed
	s.cardID = cardID
	s.origin = origin
	s.pressAt = at
	s.travel = 0
	return s.token
}

// Motion records pointer travel since the press.
func (s *Session) Motion(at domain.Point) {
	if s.state != StateArmed {
		return
	}
	s.travel = max(s.travel, manhattan(s.pressAt, at))
}

// HoldElapsed starts the drag when token still belongs to the current press.
// Stale tokens report ok=false and change nothing.
func (s *Session) HoldElapsed(ctx context.Context, token uint64) (domain.Payload, bool, error) {
	if s.state != StateArmed || token != s.token {
		return domain.Payload{}, false, nil
	}
	payload, err := s.target.Lift(ctx, s.cardID)
	if err != nil {
		s.reset()
		return domain.Payload{}, false, fmt.Errorf("lift card %q: %w", s.cardID, err)
	}
	s.token++
	s.state = StateDragging
	s.payload = payload
	s.lastClickCard = ""
	return payload, true, nil
}

// Release ends the press. containerID names the container under the pointer,
// or domain.NoOwner when the pointer is outside every container. Releasing an
// idle session returns ErrNotDragging.
func (s *Session) Release(ctx context.Context, at domain.Point, now time.Time, containerID domain.ContainerID) (Result, error) {
	switch s.state {
	case StateArmed:
		s.Motion(at)
		res := Result{CardID: s.cardID, Origin: s.origin}
		if s.travel < s.cfg.MoveThreshold {
			res.Outcome = s.registerClick(s.cardID, now)
		}
		s.reset()
		return res, nil
	case StateDragging:
		return s.drop(ctx, containerID)
	default:
		return Result{}, ErrNotDragging
	}
}

// DoubleClick is for shells whose input layer reports double-clicks
// natively. Terminals only deliver press and release, so the TUI gets edit
// outcomes from Release's click counting instead. A double-click during a
// drag is ignored.
func (s *Session) DoubleClick(cardID string) Result {
	if s.state == StateDragging {
		return Result{}
	}
	s.reset()
	s.lastClickCard = ""
	return Result{Outcome: OutcomeEdit, CardID: cardID}
}

// Cancel abandons the current press. A lifted card goes back to its origin.
func (s *Session) Cancel(ctx context.Context) error {
	if s.state != StateDragging {
		s.reset()
		return nil
	}
	cardID := s.cardID
	s.reset()
	if err := s.target.Return(ctx, cardID); err != nil {
		return fmt.Errorf("return card %q: %w", cardID, err)
	}
	return nil
}

// drop hands the payload to the container under the pointer.
func (s *Session) drop(ctx context.Context, containerID domain.ContainerID) (Result, error) {
	res := Result{CardID: s.cardID, Origin: s.origin, Target: containerID}
	payload := s.payload.String()
	s.reset()

	if containerID != domain.NoOwner {
		err := s.target.Accept(ctx, containerID, payload)
		if err == nil {
			res.Outcome = OutcomeDropped
			return res, nil
		}
		res.Err = err
	}
	res.Outcome = OutcomeReturned
	if err := s.target.Return(ctx, res.CardID); err != nil {
		return res, fmt.Errorf("return card %q: %w", res.CardID, err)
	}
	return res, nil
}

// registerClick returns OutcomeEdit for the second click on the same card
// inside the double-click window.
func (s *Session) registerClick(cardID string, now time.Time) Outcome {
	if s.lastClickCard == cardID && now.Sub(s.lastClickAt) <= s.cfg.DoubleClickWindow {
		s.lastClickCard = ""
		return OutcomeEdit
	}
	s.lastClickCard = cardID
	s.lastClickAt = now
	return OutcomeClick
}

// reset returns to idle and invalidates any pending hold timer.
func (s *Session) reset() {
	s.token++
	s.state = StateIdle
	s.cardID = ""
	s.origin = domain.NoOwner
	s.travel = 0
	s.payload = domain.Payload{}
}

// manhattan returns the taxicab distance between two points.
func manhattan(a, b domain.Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
