package tui

import (
	"github.com/Goldanik/canban/internal/app"
	"github.com/Goldanik/canban/internal/domain"
)

// Screen rows reserved around the board.
const (
	headerRows = 2
	footerRows = 3
	columnGap  = 1
	minColumnW = 8
)

// cardSlot is one rendered card in screen coordinates.
type cardSlot struct {
	card domain.Card
	rect domain.Rect
}

// containerSlot is one rendered container box in screen coordinates.
type containerSlot struct {
	container domain.Container
	rect      domain.Rect
	cards     []cardSlot
	hidden    int
}

// interior returns the box area inside the border.
func (s containerSlot) interior() domain.Rect {
	return domain.Rect{
		Min:  domain.Point{X: s.rect.Min.X + 1, Y: s.rect.Min.Y + 1},
		Size: domain.Size{W: max(0, s.rect.Size.W-2), H: max(0, s.rect.Size.H-2)},
	}
}

// boardLayout maps the board onto the terminal for rendering and hit testing.
type boardLayout struct {
	columns []containerSlot
	canvas  containerSlot
}

// slots returns columns followed by the canvas.
func (l boardLayout) slots() []containerSlot {
	out := make([]containerSlot, 0, len(l.columns)+1)
	out = append(out, l.columns...)
	return append(out, l.canvas)
}

// containerAt returns the container whose box contains p.
func (l boardLayout) containerAt(p domain.Point) (domain.Container, bool) {
	for _, slot := range l.slots() {
		if slot.rect.Contains(p) {
			return slot.container, true
		}
	}
	return domain.Container{}, false
}

// cardAt returns the topmost visible card under p.
func (l boardLayout) cardAt(p domain.Point) (cardSlot, bool) {
	for _, slot := range l.slots() {
		if !slot.interior().Contains(p) {
			continue
		}
		for i := len(slot.cards) - 1; i >= 0; i-- {
			if slot.cards[i].rect.Contains(p) {
				return slot.cards[i], true
			}
		}
	}
	return cardSlot{}, false
}

// columnHeight returns the outer height of the column row.
func columnHeight(height int, footprint domain.Size) int {
	avail := max(0, height-headerRows-footerRows)
	return max(max(1, footprint.H)+2, avail*2/5)
}

// canvasBoundsFor returns the canvas interior that fits the terminal.
func canvasBoundsFor(width, height int, footprint domain.Size) domain.Size {
	avail := max(0, height-headerRows-footerRows)
	canvasH := max(3, avail-columnHeight(height, footprint))
	return domain.Size{W: max(1, width-2), H: max(1, canvasH-2)}
}

// computeLayout places every container and visible card on screen.
func computeLayout(width, height int, board app.BoardView, footprint domain.Size) boardLayout {
	var l boardLayout
	colH := columnHeight(height, footprint)
	cardH := max(1, footprint.H)

	n := len(board.Columns)
	if n > 0 {
		colW := max(minColumnW, (width-columnGap*(n-1))/n)
		for i, view := range board.Columns {
			slot := containerSlot{
				container: view.Column.Container(),
				rect: domain.RectAt(
					domain.Point{X: i * (colW + columnGap), Y: headerRows},
					domain.Size{W: colW, H: colH},
				),
			}
			inner := slot.interior()
			visible := inner.Size.H / cardH
			for k, card := range view.Cards {
				if k >= visible {
					slot.hidden = len(view.Cards) - visible
					break
				}
				slot.cards = append(slot.cards, cardSlot{
					card: card,
					rect: domain.RectAt(
						domain.Point{X: inner.Min.X, Y: inner.Min.Y + k*cardH},
						domain.Size{W: inner.Size.W, H: cardH},
					),
				})
			}
			l.columns = append(l.columns, slot)
		}
	}

	bounds := board.Canvas.Canvas.Bounds
	l.canvas = containerSlot{
		container: board.Canvas.Canvas.Container(),
		rect: domain.RectAt(
			domain.Point{X: 0, Y: headerRows + colH},
			domain.Size{W: bounds.W + 2, H: bounds.H + 2},
		),
	}
	origin := l.canvas.interior().Min
	for _, card := range board.Canvas.Cards {
		l.canvas.cards = append(l.canvas.cards, cardSlot{
			card: card,
			rect: domain.RectAt(
				domain.Point{X: origin.X + card.Position.X, Y: origin.Y + card.Position.Y},
				card.Footprint,
			),
		})
	}
	return l
}

// clipRect trims r to the visible part inside bounds.
func clipRect(r, bounds domain.Rect) domain.Rect {
	minX := max(r.Min.X, bounds.Min.X)
	minY := max(r.Min.Y, bounds.Min.Y)
	maxX := min(r.MaxX(), bounds.MaxX())
	maxY := min(r.MaxY(), bounds.MaxY())
	return domain.Rect{
		Min:  domain.Point{X: minX, Y: minY},
		Size: domain.Size{W: max(0, maxX-minX), H: max(0, maxY-minY)},
	}
}
