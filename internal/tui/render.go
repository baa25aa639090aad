package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Goldanik/canban/internal/domain"
)

// Palette shared by the board renderers.
var (
	accentColor   = lipgloss.Color("62")
	mutedColor    = lipgloss.Color("241")
	dimColor      = lipgloss.Color("239")
	selectedColor = lipgloss.Color("212")
	textColor     = lipgloss.Color("252")
)

// drawBox renders a rounded box of exactly width x height cells with title
// embedded in the top border.
func drawBox(width, height int, title string, border color.Color) string {
	if width < 2 || height < 2 {
		return ""
	}
	b := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(border)

	title = truncate(title, max(0, width-4))
	top := b.TopLeft + b.Top
	fill := width - 3
	if title != "" {
		fill -= lipgloss.Width(title)
	} else {
		top += b.Top
		fill--
	}
	lines := make([]string, 0, height)
	topLine := edge.Render(top)
	if title != "" {
		topLine += titleStyle.Render(title)
	}
	topLine += edge.Render(strings.Repeat(b.Top, max(0, fill)) + b.TopRight)
	lines = append(lines, topLine)
	middle := edge.Render(b.Left) + strings.Repeat(" ", width-2) + edge.Render(b.Right)
	for range height - 2 {
		lines = append(lines, middle)
	}
	lines = append(lines, edge.Render(b.BottomLeft+strings.Repeat(b.Bottom, width-2)+b.BottomRight))
	return strings.Join(lines, "\n")
}

// renderCard draws a card as a small box when the footprint allows it and as
// plain text rows otherwise.
func renderCard(text string, size domain.Size, style lipgloss.Style) string {
	if size.W <= 0 || size.H <= 0 {
		return ""
	}
	if size.W < 3 || size.H < 3 {
		rows := wrapText(text, size.W, size.H)
		lines := make([]string, size.H)
		for i := range lines {
			row := ""
			if i < len(rows) {
				row = rows[i]
			}
			lines[i] = style.Render(padRight(row, size.W))
		}
		return strings.Join(lines, "\n")
	}

	b := lipgloss.RoundedBorder()
	innerW := size.W - 2
	rows := wrapText(text, innerW, size.H-2)
	lines := make([]string, 0, size.H)
	lines = append(lines, style.Render(b.TopLeft+strings.Repeat(b.Top, innerW)+b.TopRight))
	for i := range size.H - 2 {
		row := ""
		if i < len(rows) {
			row = rows[i]
		}
		lines = append(lines, style.Render(b.Left+padRight(row, innerW)+b.Right))
	}
	lines = append(lines, style.Render(b.BottomLeft+strings.Repeat(b.Bottom, innerW)+b.BottomRight))
	return strings.Join(lines, "\n")
}

// wrapText breaks text into at most maxLines rows of width cells. Overflow
// ends with an ellipsis.
func wrapText(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	words := strings.Fields(text)
	rows := make([]string, 0, maxLines)
	current := ""
	for len(words) > 0 && len(rows) < maxLines {
		candidate := words[0]
		if current != "" {
			candidate = current + " " + words[0]
		}
		if lipgloss.Width(candidate) <= width {
			current = candidate
			words = words[1:]
			continue
		}
		if current == "" {
			rs := []rune(words[0])
			cut := min(len(rs), width)
			current = string(rs[:cut])
			if cut == len(rs) {
				words = words[1:]
			} else {
				words[0] = string(rs[cut:])
			}
		}
		rows = append(rows, current)
		current = ""
	}
	if current != "" {
		rows = append(rows, current)
	}
	if len(words) > 0 && len(rows) > 0 {
		rows[len(rows)-1] = truncate(rows[len(rows)-1]+"…", width)
	}
	return rows
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// renderActivityTable renders change events newest first.
func renderActivityTable(events []domain.ChangeEvent, cardText func(string) string, width int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accentColor)).
		Headers("When", "Op", "Card", "Details").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if width > 0 {
		t = t.Width(width)
	}
	for _, event := range events {
		t.Row(
			event.OccurredAt.Local().Format("15:04:05"),
			string(event.Operation),
			truncate(cardText(event.CardID), 24),
			truncate(eventDetails(event), 40),
		)
	}
	return t.Render()
}

// eventDetails summarizes event metadata for one table cell.
func eventDetails(event domain.ChangeEvent) string {
	meta := event.Metadata
	parts := make([]string, 0, 3)
	switch event.Operation {
	case domain.ChangeOperationCreate:
		parts = append(parts, "in "+meta["owner"])
	case domain.ChangeOperationLift:
		parts = append(parts, "from "+meta["from_owner"])
	case domain.ChangeOperationPlace:
		parts = append(parts, "into "+meta["to_owner"])
	case domain.ChangeOperationMove:
		parts = append(parts, meta["from_owner"]+" → "+meta["to_owner"])
	}
	if x, ok := meta["x"]; ok {
		parts = append(parts, fmt.Sprintf("@%s,%s", x, meta["y"]))
	}
	if to, ok := meta["to_text"]; ok {
		parts = append(parts, fmt.Sprintf("%q", to))
	}
	return strings.Join(parts, " ")
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
