package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Goldanik/canban/internal/adapters/storage/memory"
	"github.com/Goldanik/canban/internal/app"
	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/drag"
	"github.com/Goldanik/canban/internal/placement"
)

// Screen points for a 120x40 terminal with the default three columns.
var (
	todoCardPoint  = tea.Mouse{X: 5, Y: 4, Button: tea.MouseLeft}
	progressPoint  = tea.Mouse{X: 50, Y: 5, Button: tea.MouseLeft}
	donePoint      = tea.Mouse{X: 90, Y: 5, Button: tea.MouseLeft}
	canvasPoint    = tea.Mouse{X: 60, Y: 30, Button: tea.MouseLeft}
	outsidePoint   = tea.Mouse{X: 0, Y: 0, Button: tea.MouseLeft}
	testHoldConfig = RuntimeConfig{Drag: drag.Config{HoldDelay: time.Millisecond, DoubleClickWindow: 200 * time.Millisecond}}
)

type fakeClipboard struct {
	text     string
	writeErr error
	readErr  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.text = text
	return nil
}

func (c *fakeClipboard) ReadAll() (string, error) {
	return c.text, c.readErr
}

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	seq := 0
	idGen := func() string {
		seq++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
	}
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	return app.NewService(memory.New(), idGen, func() time.Time { return now }, app.ServiceConfig{
		Placer: placement.New(placement.WithSeed(7)),
	})
}

func seedCard(t *testing.T, svc *app.Service, column domain.ContainerID, id, text string) domain.Card {
	t.Helper()
	out, err := svc.Drop(context.Background(), column, domain.Payload{ID: id, Text: text}.String())
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	return out.Card
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

// press delivers a click without running the hold timer.
func press(t *testing.T, m Model, at tea.Mouse) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.MouseClickMsg(at))
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out, cmd
}

func release(t *testing.T, m Model, at tea.Mouse) Model {
	t.Helper()
	return step(t, m, tea.MouseReleaseMsg(at))
}

// step applies msg and drops the returned command. Prompts return cursor
// blink timers that tests do not need to run.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = step(t, m, keyRune(r))
	}
	return m
}

func TestModelLoadsBoardAndSizesCanvas(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc))

	if !m.ready || m.status != "ready" {
		t.Fatalf("expected ready model, got ready=%v status=%q", m.ready, m.status)
	}
	if got := svc.Canvas().Bounds; got != (domain.Size{W: 118, H: 19}) {
		t.Fatalf("expected canvas bounds to follow the terminal, got %#v", got)
	}
	out := m.renderBoard()
	for _, want := range []string{"canban", "To Do (1)", "In Progress (0)", "Done (0)", "Ideas (0)", "Buy milk"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in board output:\n%s", want, out)
		}
	}
	v := m.View()
	if v.Content == nil || v.MouseMode != tea.MouseModeCellMotion || !v.AltScreen {
		t.Fatalf("unexpected view settings %#v", v)
	}
}

func TestModelFixedCanvasKeepsBounds(t *testing.T) {
	svc := newTestService(t)
	if err := svc.SetCanvasBounds(domain.Size{W: 40, H: 10}); err != nil {
		t.Fatalf("SetCanvasBounds() error = %v", err)
	}
	loadReadyModel(t, NewModel(svc, WithRuntimeConfig(RuntimeConfig{FixedCanvas: true})))
	if got := svc.Canvas().Bounds; got != (domain.Size{W: 40, H: 10}) {
		t.Fatalf("expected fixed bounds, got %#v", got)
	}
}

func TestModelDragCardBetweenColumns(t *testing.T) {
	svc := newTestService(t)
	card := seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(testHoldConfig)))

	m, hold := press(t, m, todoCardPoint)
	if m.drag.State() != drag.StateArmed || hold == nil {
		t.Fatalf("expected armed session with hold timer, got %s", m.drag.State())
	}
	m = applyCmd(t, m, hold)
	if m.drag.State() != drag.StateDragging {
		t.Fatalf("expected dragging after hold, got %s", m.drag.State())
	}
	if len(m.board.Lifted) != 1 || len(m.board.Columns[0].Cards) != 0 {
		t.Fatalf("expected lifted card to leave its column, got %#v", m.board)
	}
	if !strings.Contains(m.renderBoard(), "holding \"Buy milk\"") {
		t.Fatal("expected drag hint in header")
	}

	m = step(t, m, tea.MouseMotionMsg(donePoint))
	m = release(t, m, donePoint)
	if m.drag.State() != drag.StateIdle {
		t.Fatalf("expected idle session, got %s", m.drag.State())
	}
	moved, err := svc.Find(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if moved.Owner != "done" || moved.Text != "Buy milk" {
		t.Fatalf("expected card in done, got %#v", moved)
	}
	if m.status != "dropped on Done" || m.focusedContainer().ID != "done" {
		t.Fatalf("unexpected status %q focus %q", m.status, m.focusedContainer().ID)
	}
}

func TestModelDragCardOntoCanvas(t *testing.T) {
	svc := newTestService(t)
	card := seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(testHoldConfig)))

	m, hold := press(t, m, todoCardPoint)
	m = applyCmd(t, m, hold)
	m = release(t, m, canvasPoint)

	placed, err := svc.Find(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if placed.Owner != "ideas" {
		t.Fatalf("expected card on canvas, got %#v", placed)
	}
	bounds := svc.Canvas().Bounds
	if placed.Position.X+placed.Footprint.W > bounds.W || placed.Position.Y+placed.Footprint.H > bounds.H {
		t.Fatalf("expected card inside canvas bounds %#v, got %#v", bounds, placed.Position)
	}
	if len(m.board.Canvas.Cards) != 1 {
		t.Fatalf("expected canvas card in view, got %#v", m.board.Canvas)
	}
}

func TestModelReleaseOutsideReturnsCard(t *testing.T) {
	svc := newTestService(t)
	card := seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(testHoldConfig)))

	m, hold := press(t, m, todoCardPoint)
	m = applyCmd(t, m, hold)
	m = release(t, m, outsidePoint)

	got, err := svc.Find(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Owner != "todo" || got.Order != card.Order {
		t.Fatalf("expected card back in todo, got %#v", got)
	}
	if m.status != "returned to origin" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelReleaseOnOriginColumnIsDuplicate(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(testHoldConfig)))

	m, hold := press(t, m, todoCardPoint)
	m = applyCmd(t, m, hold)
	m = release(t, m, tea.Mouse{X: 10, Y: 10, Button: tea.MouseLeft})
	if m.status != "already there" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(m.board.Columns[0].Cards) != 1 || len(m.board.Lifted) != 0 {
		t.Fatalf("expected card settled in todo, got %#v", m.board)
	}
}

func TestModelEscCancelsDrag(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(testHoldConfig)))

	m, hold := press(t, m, todoCardPoint)
	m = applyCmd(t, m, hold)
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.drag.State() != drag.StateIdle || m.status != "drag cancelled" {
		t.Fatalf("expected cancelled drag, got %s %q", m.drag.State(), m.status)
	}
	if len(m.board.Columns[0].Cards) != 1 {
		t.Fatalf("expected card back in todo, got %#v", m.board.Columns[0])
	}
}

func TestModelClickAndDoubleClick(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := loadReadyModel(t, NewModel(svc, WithClock(clock)))
	m.focus = 1

	m, _ = press(t, m, todoCardPoint)
	m = release(t, m, todoCardPoint)
	if m.mode != modeNone || m.focusedContainer().ID != "todo" {
		t.Fatalf("expected single click to select, got mode=%d focus=%q", m.mode, m.focusedContainer().ID)
	}

	now = now.Add(100 * time.Millisecond)
	m, _ = press(t, m, todoCardPoint)
	m = release(t, m, todoCardPoint)
	if m.mode != modeEditCard || m.input.Value() != "Buy milk" {
		t.Fatalf("expected edit prompt after double click, got mode=%d value=%q", m.mode, m.input.Value())
	}
}

func TestModelSlowSecondClickDoesNotEdit(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	m := loadReadyModel(t, NewModel(svc, WithClock(func() time.Time { return now })))

	m, _ = press(t, m, todoCardPoint)
	m = release(t, m, todoCardPoint)
	now = now.Add(time.Second)
	m, _ = press(t, m, todoCardPoint)
	m = release(t, m, todoCardPoint)
	if m.mode != modeNone {
		t.Fatalf("expected no edit prompt, got mode=%d", m.mode)
	}
}

func TestModelClickEmptySpaceFocusesContainer(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))
	m, cmd := press(t, m, progressPoint)
	if cmd != nil || m.focusedContainer().ID != "progress" {
		t.Fatalf("expected focus on progress without timer, got %q", m.focusedContainer().ID)
	}
	m, _ = press(t, m, canvasPoint)
	if m.focusedContainer().ID != "ideas" {
		t.Fatalf("expected canvas focus, got %q", m.focusedContainer().ID)
	}
}

func TestModelNewIdeaFlow(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = step(t, m, keyRune('n'))
	if m.mode != modeNewIdea {
		t.Fatalf("expected new idea mode, got %d", m.mode)
	}
	m = typeText(t, m, "Write tests")
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone || m.status != "created \"Write tests\"" {
		t.Fatalf("unexpected mode=%d status=%q", m.mode, m.status)
	}
	if len(m.board.Canvas.Cards) != 1 || m.focusedContainer().ID != "ideas" {
		t.Fatalf("expected idea on canvas with focus, got %#v", m.board.Canvas)
	}

	m = step(t, m, keyRune('n'))
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(m.board.Canvas.Cards) != 2 || m.board.Canvas.Cards[1].Text != "Idea 2" {
		t.Fatalf("expected numbered idea, got %#v", m.board.Canvas.Cards)
	}
	first, second := m.board.Canvas.Cards[0], m.board.Canvas.Cards[1]
	if first.Rect().Intersects(second.Rect()) {
		t.Fatalf("expected non-overlapping ideas, got %#v and %#v", first.Position, second.Position)
	}
}

func TestModelEditCardFlow(t *testing.T) {
	svc := newTestService(t)
	card := seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc))

	m = step(t, m, keyRune('e'))
	if m.mode != modeEditCard || m.editCardID != card.ID {
		t.Fatalf("expected edit mode for %s, got mode=%d id=%q", card.ID, m.mode, m.editCardID)
	}
	m.input.SetValue("Buy oat milk")
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != "renamed to \"Buy oat milk\"" {
		t.Fatalf("unexpected status %q", m.status)
	}
	got, _ := svc.Find(context.Background(), card.ID)
	if got.Text != "Buy oat milk" {
		t.Fatalf("expected renamed card, got %#v", got)
	}

	m = step(t, m, keyRune('e'))
	m.input.SetValue("   ")
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != "unchanged" {
		t.Fatalf("expected blank edit to be ignored, got %q", m.status)
	}

	m = step(t, m, keyRune('e'))
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone || m.status != "cancelled" {
		t.Fatalf("expected cancelled edit, got mode=%d status=%q", m.mode, m.status)
	}
}

func TestModelKeyboardFocusAndSelection(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "One")
	seedCard(t, svc, "todo", "22222222-2222-4222-8222-222222222222", "Two")
	m := loadReadyModel(t, NewModel(svc))

	m = step(t, m, keyRune('j'))
	if card, ok := m.selectedCard(); !ok || card.Text != "Two" {
		t.Fatalf("expected second card selected, got %#v", card)
	}
	m = step(t, m, keyRune('j'))
	if m.selected != 1 {
		t.Fatalf("expected selection clamped, got %d", m.selected)
	}
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focusedContainer().ID != "progress" || m.selected != 0 {
		t.Fatalf("expected progress focus, got %q", m.focusedContainer().ID)
	}
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.focusedContainer().ID != "ideas" {
		t.Fatalf("expected focus to wrap to canvas, got %q", m.focusedContainer().ID)
	}
	m = step(t, m, keyRune('e'))
	if m.mode != modeNone || m.status != "no card selected" {
		t.Fatalf("expected no-op edit on empty canvas, got mode=%d status=%q", m.mode, m.status)
	}
}

func TestModelCopyAndPastePayload(t *testing.T) {
	svc := newTestService(t)
	card := seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	cb := &fakeClipboard{}
	m := loadReadyModel(t, NewModel(svc, WithClipboard(cb)))

	m = applyMsg(t, m, keyRune('y'))
	if cb.text != card.ID+";Buy milk" || m.status != "copied card payload" {
		t.Fatalf("unexpected clipboard %q status %q", cb.text, m.status)
	}

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, keyRune('p'))
	got, _ := svc.Find(context.Background(), card.ID)
	if got.Owner != "progress" || m.status != "moved \"Buy milk\" to In Progress" {
		t.Fatalf("expected pasted move, got owner=%q status=%q", got.Owner, m.status)
	}

	cb.text = "33333333-3333-4333-8333-333333333333;From elsewhere\n"
	m = applyMsg(t, m, keyRune('p'))
	if m.status != "added \"From elsewhere\" to In Progress" {
		t.Fatalf("unexpected status %q", m.status)
	}

	cb.text = "not a payload"
	m = applyMsg(t, m, keyRune('p'))
	if !strings.HasPrefix(m.status, "paste rejected") {
		t.Fatalf("expected rejection, got %q", m.status)
	}
}

func TestModelCopyFallsBackToTerminalClipboard(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	cb := &fakeClipboard{writeErr: errors.New("no clipboard")}
	m := loadReadyModel(t, NewModel(svc, WithClipboard(cb)))

	updated, cmd := m.Update(keyRune('y'))
	m = updated.(Model)
	updated, fallback := m.Update(cmd())
	m = updated.(Model)
	if fallback == nil || m.status != "copied via terminal clipboard" {
		t.Fatalf("expected terminal clipboard fallback, got status %q", m.status)
	}
}

func TestModelCardInfoAndActivityLog(t *testing.T) {
	svc := newTestService(t)
	seedCard(t, svc, "todo", "11111111-1111-4111-8111-111111111111", "Buy milk")
	m := loadReadyModel(t, NewModel(svc))

	m = step(t, m, keyRune('i'))
	if m.mode != modeCardInfo {
		t.Fatalf("expected card info mode, got %d", m.mode)
	}
	if overlay := m.renderModeOverlay(80); !strings.Contains(overlay, "11111111-1111-4111-8111-111111111111") {
		t.Fatalf("expected card id in info overlay:\n%s", overlay)
	}
	m = step(t, m, keyRune('i'))
	if m.mode != modeNone {
		t.Fatalf("expected info closed, got %d", m.mode)
	}

	m = step(t, m, keyRune('g'))
	if m.mode != modeActivityLog || len(m.activity) != 1 || m.activity[0].Operation != domain.ChangeOperationCreate {
		t.Fatalf("expected create event in activity log, got %#v", m.activity)
	}
	if overlay := m.renderModeOverlay(100); !strings.Contains(overlay, "Buy milk") || !strings.Contains(overlay, "create") {
		t.Fatalf("unexpected activity overlay:\n%s", overlay)
	}
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected activity log closed, got %d", m.mode)
	}
}

func TestModelHelpToggleAndQuit(t *testing.T) {
	m := loadReadyModel(t, NewModel(newTestService(t)))
	m = step(t, m, keyRune('?'))
	if !m.help.ShowAll || !strings.Contains(m.renderHelpOverlay(80), "press and hold") {
		t.Fatal("expected help overlay")
	}
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected help closed")
	}

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestModelConfiguredKeys(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(RuntimeConfig{Keys: KeyConfig{NewIdea: "a"}})))
	m = step(t, m, keyRune('n'))
	if m.mode != modeNone {
		t.Fatalf("expected default key to be replaced, got mode=%d", m.mode)
	}
	m = step(t, m, keyRune('a'))
	if m.mode != modeNewIdea {
		t.Fatalf("expected configured key to open idea prompt, got mode=%d", m.mode)
	}
}

type failingBoardService struct {
	Service
}

func (failingBoardService) Board(context.Context) (app.BoardView, error) {
	return app.BoardView{}, errors.New("boom")
}

func TestModelShowsLoadError(t *testing.T) {
	m := applyCmd(t, NewModel(failingBoardService{Service: newTestService(t)}), func() tea.Msg { return reloadMsg{} })
	if m.err == nil {
		t.Fatal("expected load error")
	}
	if v := m.View(); v.Content == nil {
		t.Fatal("expected error view")
	}
}
