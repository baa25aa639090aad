package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/placement"
)

// DropOutcome is the state delta produced by an accepted drop.
type DropOutcome struct {
	Card        domain.Card
	From        domain.ContainerID
	To          domain.ContainerID
	Created     bool
	TextChanged bool
	Placement   placement.Result
}

// dropTarget is the per-variant attach behaviour of a container.
type dropTarget interface {
	container() domain.Container
	// rejoin reports whether a drop from the card's own container is allowed.
	rejoin(card domain.Card, payload domain.Payload) bool
	attach(ctx context.Context, card *domain.Card, payload domain.Payload, rejoining bool, now time.Time) (placement.Result, error)
}

// columnTarget appends cards to the bottom of a column.
type columnTarget struct {
	svc    *Service
	column domain.Column
}

// container returns the column description.
func (t columnTarget) container() domain.Container {
	return t.column.Container()
}

// rejoin never allows a card back into the column it already sits in.
func (t columnTarget) rejoin(domain.Card, domain.Payload) bool {
	return false
}

// attach appends the card to the column stack.
func (t columnTarget) attach(ctx context.Context, card *domain.Card, _ domain.Payload, _ bool, now time.Time) (placement.Result, error) {
	order, err := t.svc.nextOrder(ctx, t.column.ID)
	if err != nil {
		return placement.Result{}, err
	}
	return placement.Result{}, card.AttachToColumn(t.column.ID, order, now)
}

// canvasTarget places cards on the free-form canvas.
type canvasTarget struct {
	svc *Service
}

// container returns the canvas description.
func (t canvasTarget) container() domain.Container {
	return t.svc.canvas.Container()
}

// rejoin allows a same-canvas drop only when it carries new text.
func (t canvasTarget) rejoin(card domain.Card, payload domain.Payload) bool {
	text := strings.TrimSpace(payload.Text)
	return text != "" && text != card.Text
}

// attach overwrites the text from the payload and finds a free spot. A card
// rejoining its own canvas keeps its position.
func (t canvasTarget) attach(ctx context.Context, card *domain.Card, payload domain.Payload, rejoining bool, now time.Time) (placement.Result, error) {
	if strings.TrimSpace(payload.Text) != "" {
		if err := card.SetText(payload.Text, now); err != nil {
			return placement.Result{}, err
		}
	}
	if rejoining {
		return placement.Result{}, card.AttachToCanvas(t.svc.canvas.ID, card.Position, now)
	}
	others, err := t.svc.canvasCards(ctx, card.ID)
	if err != nil {
		return placement.Result{}, err
	}
	pos, res := t.svc.placer.Place(card.Footprint, t.svc.canvas.Bounds, rects(others))
	return res, card.AttachToCanvas(t.svc.canvas.ID, pos, now)
}

// target resolves the drop behaviour for a container id.
func (s *Service) target(id domain.ContainerID) (dropTarget, bool) {
	if id == s.canvas.ID {
		return canvasTarget{svc: s}, true
	}
	for _, column := range s.columns {
		if column.ID == id {
			return columnTarget{svc: s, column: column}, true
		}
	}
	return nil, false
}

// Drop accepts a serialized payload onto a container. The card is resolved
// by id, created when unknown, guarded against duplicate drops and then moved
// with a single registry update.
func (s *Service) Drop(ctx context.Context, containerID domain.ContainerID, raw string) (DropOutcome, error) {
	target, ok := s.target(containerID)
	if !ok {
		return DropOutcome{}, fmt.Errorf("%w: %q", ErrUnknownContainer, containerID)
	}
	payload, err := domain.ParsePayload(raw)
	if err != nil {
		s.logger.Warn("drop rejected", "container", containerID, "err", err)
		return DropOutcome{}, err
	}

	now := s.clock()
	out := DropOutcome{To: containerID}
	card, err := s.repo.GetCard(ctx, payload.ID)
	switch {
	case err == nil:
		out.From = s.previousOwner(card)
	case isNotFound(err):
		card, err = domain.NewCard(domain.CardInput{
			ID:        payload.ID,
			Text:      payload.Text,
			Footprint: s.footprint,
		}, now)
		if err != nil {
			s.logger.Warn("drop rejected", "container", containerID, "card_id", payload.ID, "err", err)
			return DropOutcome{}, fmt.Errorf("%w: %q: %v", ErrUnresolvableCard, payload.ID, err)
		}
		card.Owner = domain.NoOwner
		out.Created = true
	default:
		return DropOutcome{}, err
	}

	rejoining := !out.Created && out.From == containerID
	if rejoining && !target.rejoin(card, payload) {
		s.logger.Info("duplicate drop ignored", "container", containerID, "card_id", card.ID)
		return DropOutcome{}, fmt.Errorf("%w: %q in %q", ErrDuplicateDrop, card.ID, containerID)
	}

	prevText := card.Text
	res, err := target.attach(ctx, &card, payload, rejoining, now)
	if err != nil {
		return DropOutcome{}, err
	}
	out.Placement = res
	out.TextChanged = !out.Created && card.Text != prevText

	if out.Created {
		err = s.repo.CreateCard(ctx, card)
	} else {
		err = s.repo.UpdateCard(ctx, card)
	}
	if err != nil {
		return DropOutcome{}, err
	}
	delete(s.origins, card.ID)
	out.Card = card
	s.logger.Info(
		"card dropped",
		"card_id", card.ID,
		"from", out.From,
		"to", target.container().Name,
		"created", out.Created,
		"text_changed", out.TextChanged,
	)
	return out, nil
}
