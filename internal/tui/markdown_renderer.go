package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Goldanik/canban/internal/domain"
)

// markdownRenderer renders markdown for terminal views and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text with the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, 24)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// cardMarkdown describes a card for the info panel.
func cardMarkdown(card domain.Card, container domain.Container) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", card.Text)
	fmt.Fprintf(&b, "- **id**: `%s`\n", card.ID)
	name := container.Name
	if container.ID == domain.NoOwner {
		name = "(lifted)"
	}
	fmt.Fprintf(&b, "- **container**: %s\n", name)
	if container.Kind == domain.ContainerKindCanvas {
		fmt.Fprintf(&b, "- **position**: %d, %d\n", card.Position.X, card.Position.Y)
	} else {
		fmt.Fprintf(&b, "- **order**: %d\n", card.Order)
	}
	fmt.Fprintf(&b, "- **created**: %s\n", card.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **updated**: %s\n", card.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\n```\n%s\n```\n", card.Payload().String())
	return b.String()
}
