package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	nextFocus    key.Binding
	prevFocus    key.Binding
	moveUp       key.Binding
	moveDown     key.Binding
	newIdea      key.Binding
	editCard     key.Binding
	copyPayload  key.Binding
	pastePayload key.Binding
	cardInfo     key.Binding
	activityLog  key.Binding
	cancel       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		nextFocus:    key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/l", "next container")),
		prevFocus:    key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/h", "previous container")),
		moveUp:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		newIdea:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new idea")),
		editCard:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit card")),
		copyPayload:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy card")),
		pastePayload: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste card")),
		cardInfo:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "card info")),
		activityLog:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
	}
}

// applyConfig overrides the configurable bindings. Blank values keep defaults.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.newIdea, cfg.NewIdea, "n", "new idea")
	configureBinding(&k.editCard, cfg.EditCard, "e", "edit card")
	if keys := k.editCard.Keys(); len(keys) == 1 && keys[0] != "enter" {
		k.editCard.SetKeys(keys[0], "enter")
		k.editCard.SetHelp(k.editCard.Help().Key+"/enter", k.editCard.Help().Desc)
	}
	configureBinding(&k.copyPayload, cfg.CopyPayload, "y", "copy card")
	configureBinding(&k.pastePayload, cfg.PastePayload, "p", "paste card")
	configureBinding(&k.cardInfo, cfg.CardInfo, "i", "card info")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
}

// configureBinding rebinds b to raw, or fallback when raw is blank.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys turns a configured key into matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newIdea, k.editCard, k.copyPayload, k.pastePayload, k.cardInfo, k.activityLog, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newIdea, k.editCard, k.cardInfo, k.activityLog, k.toggleHelp, k.reload, k.quit},
		{k.nextFocus, k.prevFocus, k.moveUp, k.moveDown},
		{k.copyPayload, k.pastePayload, k.cancel},
	}
}
