package domain

import (
	"strings"
	"time"
)

// Card represents a single movable note on the board.
type Card struct {
	ID        string
	Text      string
	Owner     ContainerID
	Order     int
	Position  Point
	Footprint Size
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CardInput holds input values for NewCard.
type CardInput struct {
	ID        string
	Text      string
	Owner     ContainerID
	Order     int
	Position  Point
	Footprint Size
}

// NewCard constructs a new value for this package.
func NewCard(in CardInput, now time.Time) (Card, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Text = strings.TrimSpace(in.Text)
	if in.ID == "" {
		return Card{}, ErrInvalidID
	}
	if in.Text == "" {
		return Card{}, ErrInvalidText
	}
	if !in.Footprint.Valid() {
		return Card{}, ErrInvalidFootprint
	}
	if in.Order < 0 || in.Position.X < 0 || in.Position.Y < 0 {
		return Card{}, ErrInvalidPosition
	}
	return Card{
		ID:        in.ID,
		Text:      in.Text,
		Owner:     in.Owner,
		Order:     in.Order,
		Position:  in.Position,
		Footprint: in.Footprint,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// SetText replaces the label. Blank text is rejected.
func (c *Card) SetText(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidText
	}
	c.Text = text
	c.UpdatedAt = now.UTC()
	return nil
}

// Lift detaches the card from its container while it is being dragged.
func (c *Card) Lift(now time.Time) {
	c.Owner = NoOwner
	c.UpdatedAt = now.UTC()
}

// AttachToColumn makes the column the card's owner at the given stack order.
func (c *Card) AttachToColumn(id ContainerID, order int, now time.Time) error {
	if strings.TrimSpace(string(id)) == "" {
		return ErrInvalidContainerID
	}
	if order < 0 {
		return ErrInvalidPosition
	}
	c.Owner = id
	c.Order = order
	c.Position = Point{}
	c.UpdatedAt = now.UTC()
	return nil
}

// AttachToCanvas makes the canvas the card's owner at pos.
func (c *Card) AttachToCanvas(id ContainerID, pos Point, now time.Time) error {
	if strings.TrimSpace(string(id)) == "" {
		return ErrInvalidContainerID
	}
	if pos.X < 0 || pos.Y < 0 {
		return ErrInvalidPosition
	}
	c.Owner = id
	c.Order = 0
	c.Position = pos
	c.UpdatedAt = now.UTC()
	return nil
}

// Lifted reports whether the card currently has no owner.
func (c Card) Lifted() bool {
	return c.Owner == NoOwner
}

// Rect returns the card's footprint at its canvas position.
func (c Card) Rect() Rect {
	return RectAt(c.Position, c.Footprint)
}

// Payload snapshots the card's identity and text for transfer.
func (c Card) Payload() Payload {
	return Payload{ID: c.ID, Text: c.Text}
}

// Settle gives a lifted card back to owner without touching its order or position.
func (c *Card) Settle(owner ContainerID, now time.Time) error {
	if strings.TrimSpace(string(owner)) == "" {
		return ErrInvalidContainerID
	}
	c.Owner = owner
	c.UpdatedAt = now.UTC()
	return nil
}
