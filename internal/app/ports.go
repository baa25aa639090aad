package app

import (
	"context"

	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/placement"
)

// Repository is the card registry. Container membership is derived from
// each card's owner, so a single UpdateCard both detaches and attaches.
type Repository interface {
	CreateCard(context.Context, domain.Card) error
	UpdateCard(context.Context, domain.Card) error
	GetCard(context.Context, string) (domain.Card, error)
	ListCards(context.Context) ([]domain.Card, error)
	ListCardsByOwner(context.Context, domain.ContainerID) ([]domain.Card, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

// Placer chooses canvas positions for new or arriving cards.
type Placer interface {
	Place(footprint, bounds domain.Size, occupied []domain.Rect) (domain.Point, placement.Result)
}

// Logger is the logging contract used by the service.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}
