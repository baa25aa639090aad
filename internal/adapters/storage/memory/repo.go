// Package memory implements the card registry as a flat id-indexed map.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Goldanik/canban/internal/app"
	"github.com/Goldanik/canban/internal/domain"
)

// defaultEventLimit caps ListChangeEvents when no limit is given.
const defaultEventLimit = 50

// Repository represents repository data used by this package. It is not safe
// for concurrent use.
type Repository struct {
	cards  map[string]domain.Card
	order  []string
	events []domain.ChangeEvent
	nextID int64
}

// New constructs a new value for this package.
func New() *Repository {
	return &Repository{cards: map[string]domain.Card{}}
}

// CreateCard registers a new card.
func (r *Repository) CreateCard(_ context.Context, c domain.Card) error {
	if strings.TrimSpace(c.ID) == "" {
		return domain.ErrInvalidID
	}
	if _, ok := r.cards[c.ID]; ok {
		return fmt.Errorf("%w: %q", app.ErrDuplicateID, c.ID)
	}
	r.cards[c.ID] = c
	r.order = append(r.order, c.ID)
	r.record(domain.CreatedEvent(c))
	return nil
}

// UpdateCard replaces a registered card.
func (r *Repository) UpdateCard(_ context.Context, c domain.Card) error {
	prev, ok := r.cards[c.ID]
	if !ok {
		return app.ErrNotFound
	}
	r.cards[c.ID] = c
	r.record(domain.ClassifyCardChange(prev, c))
	return nil
}

// GetCard returns card.
func (r *Repository) GetCard(_ context.Context, id string) (domain.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return domain.Card{}, app.ErrNotFound
	}
	return c, nil
}

// ListCards returns every card in creation order.
func (r *Repository) ListCards(_ context.Context) ([]domain.Card, error) {
	out := make([]domain.Card, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cards[id])
	}
	return out, nil
}

// ListCardsByOwner returns the cards owned by a container in stack order.
func (r *Repository) ListCardsByOwner(_ context.Context, owner domain.ContainerID) ([]domain.Card, error) {
	out := make([]domain.Card, 0)
	for _, id := range r.order {
		if c := r.cards[id]; c.Owner == owner {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Card) int {
		return a.Order - b.Order
	})
	return out, nil
}

// ListChangeEvents returns the newest events first.
func (r *Repository) ListChangeEvents(_ context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	out := make([]domain.ChangeEvent, 0, min(limit, len(r.events)))
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

// record appends a ledger entry.
func (r *Repository) record(event domain.ChangeEvent) {
	r.nextID++
	event.ID = r.nextID
	if event.Metadata == nil {
		event.Metadata = map[string]string{}
	}
	r.events = append(r.events, event)
}
