package domain

import "strings"

// ContainerID identifies a column or the canvas.
type ContainerID string

// NoOwner marks a card that is currently lifted by a drag.
const NoOwner ContainerID = ""

// ContainerKind distinguishes the two drop container variants.
type ContainerKind string

// ContainerKind values.
const (
	ContainerKindColumn ContainerKind = "column"
	ContainerKindCanvas ContainerKind = "canvas"
)

// Container describes any drop target on the board.
type Container struct {
	ID   ContainerID
	Kind ContainerKind
	Name string
}

// Column represents a fixed, ordered stack of cards.
type Column struct {
	ID       ContainerID
	Name     string
	Position int
}

// NewColumn constructs a new value for this package.
func NewColumn(id, name string, position int) (Column, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Column{}, ErrInvalidContainerID
	}
	if name == "" {
		return Column{}, ErrInvalidName
	}
	if position < 0 {
		return Column{}, ErrInvalidPosition
	}
	return Column{ID: ContainerID(id), Name: name, Position: position}, nil
}

// Container returns the generic container description.
func (c Column) Container() Container {
	return Container{ID: c.ID, Kind: ContainerKindColumn, Name: c.Name}
}

// Canvas represents the free-form idea surface.
type Canvas struct {
	ID     ContainerID
	Name   string
	Bounds Size
}

// NewCanvas constructs a new value for this package. Zero bounds are allowed
// until the surface learns its real size.
func NewCanvas(id, name string, bounds Size) (Canvas, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Canvas{}, ErrInvalidContainerID
	}
	if name == "" {
		return Canvas{}, ErrInvalidName
	}
	if bounds.W < 0 || bounds.H < 0 {
		return Canvas{}, ErrInvalidBounds
	}
	return Canvas{ID: ContainerID(id), Name: name, Bounds: bounds}, nil
}

// Resize updates the canvas bounds.
func (c *Canvas) Resize(bounds Size) error {
	if bounds.W < 0 || bounds.H < 0 {
		return ErrInvalidBounds
	}
	c.Bounds = bounds
	return nil
}

// Container returns the generic container description.
func (c Canvas) Container() Container {
	return Container{ID: c.ID, Kind: ContainerKindCanvas, Name: c.Name}
}
