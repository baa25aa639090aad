package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/placement"
)

// DefaultFootprint is the card size used when none is configured.
var DefaultFootprint = domain.Size{W: 18, H: 3}

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	StateTemplates []StateTemplate
	Canvas         CanvasTemplate
	Footprint      domain.Size
	Placer         Placer
	Logger         Logger
}

// StateTemplate represents one configured board column.
type StateTemplate struct {
	ID       string
	Name     string
	Position int
}

// CanvasTemplate represents the configured idea canvas.
type CanvasTemplate struct {
	ID     string
	Name   string
	Bounds domain.Size
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service represents service data used by this package.
type Service struct {
	repo      Repository
	idGen     IDGenerator
	clock     Clock
	placer    Placer
	logger    Logger
	footprint domain.Size
	columns   []domain.Column
	canvas    domain.Canvas
	// origins remembers where each lifted card came from.
	origins map[string]domain.ContainerID
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.Placer == nil {
		cfg.Placer = placement.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = charmLog.New(io.Discard)
	}
	if !cfg.Footprint.Valid() {
		cfg.Footprint = DefaultFootprint
	}
	canvas := sanitizeCanvasTemplate(cfg.Canvas)
	templates := sanitizeStateTemplates(cfg.StateTemplates)
	if len(templates) == 0 {
		templates = defaultStateTemplates()
	}
	columns := make([]domain.Column, 0, len(templates))
	for idx, tpl := range templates {
		if domain.ContainerID(tpl.ID) == canvas.ID {
			continue
		}
		column, err := domain.NewColumn(tpl.ID, tpl.Name, idx)
		if err != nil {
			continue
		}
		columns = append(columns, column)
	}

	return &Service{
		repo:      repo,
		idGen:     idGen,
		clock:     clock,
		placer:    cfg.Placer,
		logger:    cfg.Logger,
		footprint: cfg.Footprint,
		columns:   columns,
		canvas:    canvas,
		origins:   map[string]domain.ContainerID{},
	}
}

// Columns returns the configured columns in board order.
func (s *Service) Columns() []domain.Column {
	return slices.Clone(s.columns)
}

// Canvas returns the idea canvas.
func (s *Service) Canvas() domain.Canvas {
	return s.canvas
}

// Footprint returns the size given to new cards.
func (s *Service) Footprint() domain.Size {
	return s.footprint
}

// Containers lists every drop target, columns first.
func (s *Service) Containers() []domain.Container {
	out := make([]domain.Container, 0, len(s.columns)+1)
	for _, column := range s.columns {
		out = append(out, column.Container())
	}
	return append(out, s.canvas.Container())
}

// Container resolves a container by id.
func (s *Service) Container(id domain.ContainerID) (domain.Container, bool) {
	for _, c := range s.Containers() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Container{}, false
}

// SetCanvasBounds records the visible canvas size used for placement.
func (s *Service) SetCanvasBounds(bounds domain.Size) error {
	if err := s.canvas.Resize(bounds); err != nil {
		return err
	}
	s.logger.Debug("canvas resized", "width", bounds.W, "height", bounds.H)
	return nil
}

// Find returns the card with id.
func (s *Service) Find(ctx context.Context, id string) (domain.Card, error) {
	return s.repo.GetCard(ctx, strings.TrimSpace(id))
}

// All returns every registered card.
func (s *Service) All(ctx context.Context) ([]domain.Card, error) {
	return s.repo.ListCards(ctx)
}

// CreateIdea creates a card on the canvas at a free position. Blank text
// falls back to a numbered "Idea N" label.
func (s *Service) CreateIdea(ctx context.Context, text string) (domain.Card, error) {
	occupied, err := s.canvasCards(ctx, "")
	if err != nil {
		return domain.Card{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = fmt.Sprintf("Idea %d", len(occupied)+1)
	}
	pos, res := s.placer.Place(s.footprint, s.canvas.Bounds, rects(occupied))
	card, err := domain.NewCard(domain.CardInput{
		ID:        s.idGen(),
		Text:      text,
		Owner:     s.canvas.ID,
		Position:  pos,
		Footprint: s.footprint,
	}, s.clock())
	if err != nil {
		return domain.Card{}, err
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return domain.Card{}, err
	}
	s.logger.Info("idea created", "card_id", card.ID, "x", pos.X, "y", pos.Y, "attempts", res.Attempts, "exhausted", res.Exhausted)
	return card, nil
}

// EditCard replaces a card's text. Blank text leaves the card unchanged.
func (s *Service) EditCard(ctx context.Context, id, text string) (domain.Card, error) {
	card, err := s.repo.GetCard(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Card{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" || text == card.Text {
		return card, nil
	}
	if err := card.SetText(text, s.clock()); err != nil {
		return domain.Card{}, err
	}
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return domain.Card{}, err
	}
	s.logger.Info("card edited", "card_id", card.ID)
	return card, nil
}

// Lift detaches a card for dragging and returns its payload snapshot.
func (s *Service) Lift(ctx context.Context, id string) (domain.Payload, error) {
	card, err := s.repo.GetCard(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Payload{}, err
	}
	if card.Lifted() {
		return domain.Payload{}, ErrCardInFlight
	}
	origin := card.Owner
	card.Lift(s.clock())
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return domain.Payload{}, err
	}
	s.origins[card.ID] = origin
	s.logger.Debug("card lifted", "card_id", card.ID, "origin", origin)
	return card.Payload(), nil
}

// Return puts a lifted card back where it was lifted from, keeping its order
// and position. Settled cards are left alone.
func (s *Service) Return(ctx context.Context, id string) error {
	card, err := s.repo.GetCard(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	origin, ok := s.origins[card.ID]
	if !ok || !card.Lifted() {
		delete(s.origins, card.ID)
		return nil
	}
	if err := card.Settle(origin, s.clock()); err != nil {
		return err
	}
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return err
	}
	delete(s.origins, card.ID)
	s.logger.Debug("card returned", "card_id", card.ID, "owner", origin)
	return nil
}

// Accept drops payload onto the container and reports only the error.
func (s *Service) Accept(ctx context.Context, containerID domain.ContainerID, payload string) error {
	_, err := s.Drop(ctx, containerID, payload)
	return err
}

// ActivityLog lists the most recent registry changes, newest first.
func (s *Service) ActivityLog(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	return s.repo.ListChangeEvents(ctx, limit)
}

// ColumnView is one column and its cards in stack order.
type ColumnView struct {
	Column domain.Column
	Cards  []domain.Card
}

// CanvasView is the canvas and its cards.
type CanvasView struct {
	Canvas domain.Canvas
	Cards  []domain.Card
}

// BoardView is a render-ready snapshot of the board.
type BoardView struct {
	Columns []ColumnView
	Canvas  CanvasView
	Lifted  []domain.Card
}

// Board builds a snapshot of every container and its cards.
func (s *Service) Board(ctx context.Context) (BoardView, error) {
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return BoardView{}, err
	}
	view := BoardView{
		Columns: make([]ColumnView, 0, len(s.columns)),
		Canvas:  CanvasView{Canvas: s.canvas},
	}
	byOwner := map[domain.ContainerID][]domain.Card{}
	for _, card := range cards {
		if card.Lifted() {
			view.Lifted = append(view.Lifted, card)
			continue
		}
		byOwner[card.Owner] = append(byOwner[card.Owner], card)
	}
	for _, column := range s.columns {
		colCards := byOwner[column.ID]
		sortByOrder(colCards)
		view.Columns = append(view.Columns, ColumnView{Column: column, Cards: colCards})
	}
	view.Canvas.Cards = byOwner[s.canvas.ID]
	return view, nil
}

// canvasCards lists canvas cards except the one with skipID.
func (s *Service) canvasCards(ctx context.Context, skipID string) ([]domain.Card, error) {
	cards, err := s.repo.ListCardsByOwner(ctx, s.canvas.ID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(cards, func(c domain.Card) bool { return c.ID == skipID }), nil
}

// nextOrder returns the stack order for a card appended to column.
func (s *Service) nextOrder(ctx context.Context, column domain.ContainerID) (int, error) {
	cards, err := s.repo.ListCardsByOwner(ctx, column)
	if err != nil {
		return 0, err
	}
	next := 0
	for _, card := range cards {
		next = max(next, card.Order+1)
	}
	return next, nil
}

// previousOwner returns the settled owner or, for a lifted card, its origin.
func (s *Service) previousOwner(card domain.Card) domain.ContainerID {
	if card.Lifted() {
		return s.origins[card.ID]
	}
	return card.Owner
}

// rects converts cards to their canvas rectangles.
func rects(cards []domain.Card) []domain.Rect {
	out := make([]domain.Rect, 0, len(cards))
	for _, card := range cards {
		out = append(out, card.Rect())
	}
	return out
}

// sortByOrder sorts column cards by stack order, then creation time.
func sortByOrder(cards []domain.Card) {
	slices.SortStableFunc(cards, func(a, b domain.Card) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// defaultStateTemplates returns the stock kanban columns.
func defaultStateTemplates() []StateTemplate {
	return []StateTemplate{
		{ID: "todo", Name: "To Do", Position: 0},
		{ID: "progress", Name: "In Progress", Position: 1},
		{ID: "done", Name: "Done", Position: 2},
	}
}

// sanitizeStateTemplates trims, dedupes and orders configured columns.
func sanitizeStateTemplates(in []StateTemplate) []StateTemplate {
	if len(in) == 0 {
		return nil
	}
	out := make([]StateTemplate, 0, len(in))
	seen := map[string]struct{}{}
	for idx, state := range in {
		state.Name = strings.TrimSpace(state.Name)
		state.ID = strings.TrimSpace(strings.ToLower(state.ID))
		if state.Name == "" {
			continue
		}
		if state.ID == "" {
			state.ID = NormalizeStateID(state.Name)
		}
		if _, ok := seen[state.ID]; ok {
			continue
		}
		seen[state.ID] = struct{}{}
		if state.Position < 0 {
			state.Position = idx
		}
		out = append(out, state)
	}
	slices.SortStableFunc(out, func(a, b StateTemplate) int {
		return a.Position - b.Position
	})
	return out
}

// sanitizeCanvasTemplate applies canvas defaults.
func sanitizeCanvasTemplate(in CanvasTemplate) domain.Canvas {
	id := strings.TrimSpace(strings.ToLower(in.ID))
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Ideas"
	}
	if id == "" {
		id = NormalizeStateID(name)
	}
	canvas, err := domain.NewCanvas(id, name, in.Bounds)
	if err != nil {
		canvas, _ = domain.NewCanvas("ideas", "Ideas", domain.Size{})
	}
	return canvas
}

// NormalizeStateID derives a container id from a display name.
func NormalizeStateID(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	normalized := strings.Trim(b.String(), "-")
	switch normalized {
	case "to-do", "todo":
		return "todo"
	case "in-progress", "progress", "doing":
		return "progress"
	case "done", "complete", "completed":
		return "done"
	default:
		return normalized
	}
}

// isNotFound reports whether err is a registry miss.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
