package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Goldanik/canban/internal/app"
	"github.com/Goldanik/canban/internal/domain"
	"github.com/Goldanik/canban/internal/drag"
)

// Service is the board surface the TUI drives. Drag sessions use the
// embedded drag.Target directly.
type Service interface {
	drag.Target
	Board(context.Context) (app.BoardView, error)
	Find(context.Context, string) (domain.Card, error)
	CreateIdea(context.Context, string) (domain.Card, error)
	EditCard(context.Context, string, string) (domain.Card, error)
	Drop(context.Context, domain.ContainerID, string) (app.DropOutcome, error)
	SetCanvasBounds(domain.Size) error
	ActivityLog(context.Context, int) ([]domain.ChangeEvent, error)
	Footprint() domain.Size
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeNewIdea
	modeEditCard
	modeCardInfo
	modeActivityLog
)

// activityLimit caps the rows shown in the activity overlay.
const activityLimit = 30

// Model is the bubbletea model for the board. Every service call happens on
// the update goroutine; commands only carry timers and clipboard I/O.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	dragCfg     drag.Config
	fixedCanvas bool
	clipboard   Clipboard
	now         func() time.Time

	board    app.BoardView
	focus    int
	selected int
	pointer  domain.Point
	drag     *drag.Session

	mode       inputMode
	input      textinput.Model
	editCardID string
	infoCardID string
	activity   []domain.ChangeEvent
	markdown   *markdownRenderer
}

// reloadMsg asks Update to refresh the board snapshot.
type reloadMsg struct{}

// holdMsg fires when the press-and-hold delay for token elapses.
type holdMsg struct {
	token uint64
}

// clipboardMsg reports a finished clipboard write.
type clipboardMsg struct {
	text string
	err  error
}

// pasteMsg carries clipboard contents to drop onto target.
type pasteMsg struct {
	target domain.ContainerID
	text   string
	err    error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:       svc,
		status:    "loading...",
		help:      h,
		keys:      newKeyMap(),
		clipboard: systemClipboard{},
		now:       time.Now,
		markdown:  &markdownRenderer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.drag = drag.New(svc, m.dragCfg)
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return reloadMsg{}
	}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		if !m.fixedCanvas {
			if err := m.svc.SetCanvasBounds(canvasBoundsFor(m.width, m.height, m.svc.Footprint())); err != nil {
				m.status = "canvas resize failed: " + err.Error()
			}
		}
		m.reload()
		return m, nil

	case reloadMsg:
		m.reload()
		return m, nil

	case holdMsg:
		return m.handleHold(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copied via terminal clipboard"
			return m, tea.SetClipboard(msg.text)
		}
		m.status = "copied card payload"
		return m, nil

	case pasteMsg:
		return m.handlePaste(msg)

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		if m.mode == modeNewIdea || m.mode == modeEditCard {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// reload refreshes the board snapshot from the service.
func (m *Model) reload() {
	board, err := m.svc.Board(context.Background())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.board = board
	m.clampSelections()
	if m.status == "" || m.status == "loading..." {
		m.status = "ready"
	}
}

// layout computes the current screen geometry.
func (m Model) layout() boardLayout {
	return computeLayout(m.width, m.height, m.board, m.svc.Footprint())
}

// containers lists drop containers in focus order.
func (m Model) containers() []domain.Container {
	out := make([]domain.Container, 0, len(m.board.Columns)+1)
	for _, view := range m.board.Columns {
		out = append(out, view.Column.Container())
	}
	return append(out, m.board.Canvas.Canvas.Container())
}

// focusedContainer returns the container keyboard actions apply to.
func (m Model) focusedContainer() domain.Container {
	all := m.containers()
	return all[clamp(m.focus, 0, len(all)-1)]
}

// cardsIn returns the settled cards of a container.
func (m Model) cardsIn(id domain.ContainerID) []domain.Card {
	if id == m.board.Canvas.Canvas.ID {
		return m.board.Canvas.Cards
	}
	for _, view := range m.board.Columns {
		if view.Column.ID == id {
			return view.Cards
		}
	}
	return nil
}

// selectedCard returns the card under keyboard selection.
func (m Model) selectedCard() (domain.Card, bool) {
	cards := m.cardsIn(m.focusedContainer().ID)
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	return cards[clamp(m.selected, 0, len(cards)-1)], true
}

// cardByID finds a card anywhere on the board, lifted cards included.
func (m Model) cardByID(id string) (domain.Card, bool) {
	for _, container := range m.containers() {
		for _, card := range m.cardsIn(container.ID) {
			if card.ID == id {
				return card, true
			}
		}
	}
	for _, card := range m.board.Lifted {
		if card.ID == id {
			return card, true
		}
	}
	return domain.Card{}, false
}

// containerByID returns a container by id.
func (m Model) containerByID(id domain.ContainerID) (domain.Container, bool) {
	for _, container := range m.containers() {
		if container.ID == id {
			return container, true
		}
	}
	return domain.Container{}, false
}

// focusContainer moves keyboard focus to a container.
func (m *Model) focusContainer(id domain.ContainerID) {
	for idx, container := range m.containers() {
		if container.ID == id {
			if m.focus != idx {
				m.selected = 0
			}
			m.focus = idx
			return
		}
	}
}

// focusCard focuses the container holding id and selects the card.
func (m *Model) focusCard(id string) {
	for idx, container := range m.containers() {
		for cardIdx, card := range m.cardsIn(container.ID) {
			if card.ID == id {
				m.focus = idx
				m.selected = cardIdx
				return
			}
		}
	}
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	m.focus = clamp(m.focus, 0, len(m.containers())-1)
	m.selected = clamp(m.selected, 0, len(m.cardsIn(m.focusedContainer().ID))-1)
}

// cardLabel returns card text for display, or a short id when unknown.
func (m Model) cardLabel(id string) string {
	if card, ok := m.cardByID(id); ok {
		return card.Text
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// startIdeaForm opens the new idea prompt.
func (m *Model) startIdeaForm() tea.Cmd {
	m.mode = modeNewIdea
	m.input = newModalInput("idea: ", "blank for a numbered idea", "", 200)
	m.status = "new idea"
	return m.input.Focus()
}

// startEditForm opens the edit prompt for a card.
func (m *Model) startEditForm(card domain.Card) tea.Cmd {
	m.mode = modeEditCard
	m.editCardID = card.ID
	m.input = newModalInput("text: ", "card text", card.Text, 200)
	m.input.CursorEnd()
	m.status = "edit card"
	return m.input.Focus()
}

// handleNormalModeKey handles normal mode key.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.quit):
		if m.drag.State() != drag.StateIdle {
			_ = m.drag.Cancel(ctx)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.cancel):
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}
		if m.drag.State() != drag.StateIdle {
			if err := m.drag.Cancel(ctx); err != nil {
				m.status = err.Error()
			} else {
				m.status = "drag cancelled"
			}
			m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.reload):
		m.status = "reloaded"
		m.reload()
		return m, nil

	case key.Matches(msg, m.keys.nextFocus):
		m.focus = wrapIndex(m.focus, 1, len(m.containers()))
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.prevFocus):
		m.focus = wrapIndex(m.focus, -1, len(m.containers()))
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		m.selected = max(0, m.selected-1)
		m.clampSelections()
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		m.selected++
		m.clampSelections()
		return m, nil

	case key.Matches(msg, m.keys.newIdea):
		return m, m.startIdeaForm()

	case key.Matches(msg, m.keys.editCard):
		card, ok := m.selectedCard()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		return m, m.startEditForm(card)

	case key.Matches(msg, m.keys.copyPayload):
		card, ok := m.selectedCard()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		return m, m.copyCmd(card.Payload().String())

	case key.Matches(msg, m.keys.pastePayload):
		return m, m.pasteCmd(m.focusedContainer().ID)

	case key.Matches(msg, m.keys.cardInfo):
		card, ok := m.selectedCard()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		m.mode = modeCardInfo
		m.infoCardID = card.ID
		m.status = "card info"
		return m, nil

	case key.Matches(msg, m.keys.activityLog):
		events, err := m.svc.ActivityLog(ctx, activityLimit)
		if err != nil {
			m.status = "activity log unavailable: " + err.Error()
			return m, nil
		}
		m.activity = events
		m.mode = modeActivityLog
		m.status = "activity log"
		return m, nil

	default:
		return m, nil
	}
}

// handleInputModeKey handles input mode key.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeCardInfo, modeActivityLog:
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.quit),
			m.mode == modeCardInfo && key.Matches(msg, m.keys.cardInfo),
			m.mode == modeActivityLog && key.Matches(msg, m.keys.activityLog):
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.editCardID = ""
		m.input.Blur()
		m.status = "cancelled"
		return m, nil
	case "enter":
		return m.submitInputMode()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInputMode applies the active prompt.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	value := m.input.Value()
	mode := m.mode
	m.mode = modeNone
	m.input.Blur()

	switch mode {
	case modeNewIdea:
		card, err := m.svc.CreateIdea(ctx, value)
		if err != nil {
			m.status = "create failed: " + err.Error()
			return m, nil
		}
		m.reload()
		m.focusCard(card.ID)
		m.status = fmt.Sprintf("created %q", card.Text)
	case modeEditCard:
		id := m.editCardID
		m.editCardID = ""
		before, _ := m.cardByID(id)
		card, err := m.svc.EditCard(ctx, id, value)
		if err != nil {
			m.status = "edit failed: " + err.Error()
			return m, nil
		}
		m.reload()
		if card.Text == before.Text {
			m.status = "unchanged"
		} else {
			m.status = fmt.Sprintf("renamed to %q", card.Text)
		}
	}
	return m, nil
}

// copyCmd writes text to the system clipboard.
func (m Model) copyCmd(text string) tea.Cmd {
	cb := m.clipboard
	return func() tea.Msg {
		return clipboardMsg{text: text, err: cb.WriteAll(text)}
	}
}

// pasteCmd reads the clipboard for a drop onto target.
func (m Model) pasteCmd(target domain.ContainerID) tea.Cmd {
	cb := m.clipboard
	return func() tea.Msg {
		text, err := cb.ReadAll()
		return pasteMsg{target: target, text: text, err: err}
	}
}

// handlePaste drops clipboard contents onto the requested container.
func (m Model) handlePaste(msg pasteMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "paste failed: " + msg.err.Error()
		return m, nil
	}
	out, err := m.svc.Drop(context.Background(), msg.target, strings.TrimRight(msg.text, "\r\n"))
	if err != nil {
		m.status = "paste rejected: " + err.Error()
		return m, nil
	}
	m.reload()
	m.focusCard(out.Card.ID)
	m.status = m.describeDrop(out)
	return m, nil
}

// describeDrop summarizes a drop for the status line.
func (m Model) describeDrop(out app.DropOutcome) string {
	name := string(out.To)
	if container, ok := m.containerByID(out.To); ok {
		name = container.Name
	}
	switch {
	case out.Created:
		return fmt.Sprintf("added %q to %s", out.Card.Text, name)
	case out.TextChanged:
		return fmt.Sprintf("updated %q in %s", out.Card.Text, name)
	default:
		return fmt.Sprintf("moved %q to %s", out.Card.Text, name)
	}
}

// handleMouseClick arms a drag on the card under the pointer.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft || m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	at := domain.Point{X: mouse.X, Y: mouse.Y}
	m.pointer = at
	l := m.layout()
	if slot, ok := l.cardAt(at); ok {
		m.focusCard(slot.card.ID)
		token := m.drag.Press(slot.card.ID, slot.card.Owner, at)
		if token == 0 {
			return m, nil
		}
		return m, holdCmd(m.drag.Config().HoldDelay, token)
	}
	if container, ok := l.containerAt(at); ok {
		m.focusContainer(container.ID)
	}
	return m, nil
}

// holdCmd schedules the press-and-hold check.
func holdCmd(delay time.Duration, token uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return holdMsg{token: token}
	})
}

// handleHold lifts the armed card once the hold delay passed.
func (m Model) handleHold(msg holdMsg) (tea.Model, tea.Cmd) {
	payload, ok, err := m.drag.HoldElapsed(context.Background(), msg.token)
	if err != nil {
		m.status = "drag failed: " + err.Error()
		m.reload()
		return m, nil
	}
	if !ok {
		return m, nil
	}
	m.status = fmt.Sprintf("dragging %q", payload.Text)
	m.reload()
	return m, nil
}

// handleMouseMotion tracks the pointer for the drag ghost and travel.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.pointer = domain.Point{X: mouse.X, Y: mouse.Y}
	m.drag.Motion(m.pointer)
	return m, nil
}

// handleMouseRelease ends a click or drops the dragged card.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	at := domain.Point{X: mouse.X, Y: mouse.Y}
	m.pointer = at
	if m.drag.State() == drag.StateIdle {
		return m, nil
	}
	target := domain.NoOwner
	if container, ok := m.layout().containerAt(at); ok {
		target = container.ID
	}
	res, err := m.drag.Release(context.Background(), at, m.now(), target)
	if err != nil {
		m.status = err.Error()
	}
	m.reload()

	switch res.Outcome {
	case drag.OutcomeClick:
		m.focusCard(res.CardID)
	case drag.OutcomeEdit:
		card, ok := m.cardByID(res.CardID)
		if !ok {
			return m, nil
		}
		return m, m.startEditForm(card)
	case drag.OutcomeDropped:
		m.focusCard(res.CardID)
		name := string(res.Target)
		if container, ok := m.containerByID(res.Target); ok {
			name = container.Name
		}
		m.status = "dropped on " + name
	case drag.OutcomeReturned:
		m.focusCard(res.CardID)
		switch {
		case errors.Is(res.Err, app.ErrDuplicateDrop):
			m.status = "already there"
		case res.Err != nil:
			m.status = "drop rejected: " + res.Err.Error()
		default:
			m.status = "returned to origin"
		}
	}
	return m, nil
}

// wrapIndex wraps an index across total entries.
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := (current + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	content := m.renderBoard()
	var overlay string
	switch {
	case m.help.ShowAll:
		overlay = m.renderHelpOverlay(m.width - 8)
	case m.mode != modeNone:
		overlay = m.renderModeOverlay(m.width - 8)
	}
	if overlay != "" {
		content = overlayOnContent(content, overlay, max(1, m.width), max(1, m.height))
	}

	view := tea.NewView(content)
	view.MouseMode = tea.MouseModeCellMotion
	view.AltScreen = true
	return view
}

// renderBoard composes header, containers, cards and footer into one frame.
func (m Model) renderBoard() string {
	statusStyle := lipgloss.NewStyle().Foreground(dimColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(textColor)
	cardStyle := lipgloss.NewStyle().Foreground(textColor)
	selectedStyle := lipgloss.NewStyle().Foreground(selectedColor).Bold(true)
	ghostStyle := lipgloss.NewStyle().Foreground(selectedColor).Bold(true).Reverse(true)

	frame := lipgloss.NewCanvas(max(1, m.width), max(1, m.height))
	z := 0
	place := func(content string, at domain.Point) {
		if content == "" {
			return
		}
		z++
		frame.Compose(lipgloss.NewLayer(content).X(at.X).Y(at.Y).Z(z))
	}

	header := titleStyle.Render("canban")
	header += statusStyle.Render(fmt.Sprintf("  [%s]", m.drag.State()))
	if m.drag.State() == drag.StateDragging {
		header += statusStyle.Render(fmt.Sprintf("  holding %q • release over a column or the canvas • esc cancel", m.drag.Payload().Text))
	}
	place(header, domain.Point{})

	focusID := m.focusedContainer().ID
	selected, hasSelected := m.selectedCard()
	for _, slot := range m.layout().slots() {
		border := dimColor
		if slot.container.ID == focusID {
			border = accentColor
		}
		total := len(slot.cards) + slot.hidden
		title := fmt.Sprintf(" %s (%d) ", slot.container.Name, total)
		if slot.hidden > 0 {
			title = fmt.Sprintf(" %s (%d, +%d below) ", slot.container.Name, total, slot.hidden)
		}
		place(drawBox(slot.rect.Size.W, slot.rect.Size.H, title, border), slot.rect.Min)

		interior := slot.interior()
		for _, cs := range slot.cards {
			visible := clipRect(cs.rect, interior)
			if visible.Empty() {
				continue
			}
			style := cardStyle
			if hasSelected && cs.card.ID == selected.ID {
				style = selectedStyle
			}
			place(renderCard(cs.card.Text, visible.Size, style), visible.Min)
		}
	}

	if m.drag.State() == drag.StateDragging {
		place(renderCard(m.drag.Payload().Text, m.svc.Footprint(), ghostStyle), m.pointer)
	}

	footerTop := max(0, m.height-footerRows)
	if strings.TrimSpace(m.status) != "" {
		place(statusStyle.Render(truncate(m.status, max(1, m.width))), domain.Point{Y: footerTop})
	}
	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(mutedColor).
		BorderTop(true).
		BorderForeground(dimColor).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	place(helpLine, domain.Point{Y: footerTop + 1})

	return frame.Render()
}

// renderModeOverlay renders the prompt or panel for the active mode.
func (m Model) renderModeOverlay(maxWidth int) string {
	width := clamp(maxWidth, 40, 100)
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Width(width)

	var lines []string
	switch m.mode {
	case modeNewIdea:
		lines = []string{
			title.Render("New idea"),
			m.input.View(),
			muted.Render("enter create • esc cancel"),
		}
	case modeEditCard:
		lines = []string{
			title.Render("Edit card"),
			m.input.View(),
			muted.Render("enter save • esc cancel"),
		}
	case modeCardInfo:
		card, ok := m.cardByID(m.infoCardID)
		if !ok {
			lines = []string{title.Render("Card info"), muted.Render("card no longer on the board")}
			break
		}
		container, _ := m.containerByID(card.Owner)
		lines = []string{
			m.markdown.render(cardMarkdown(card, container), width-4),
			muted.Render(fmt.Sprintf("%s or esc to close", m.keys.cardInfo.Help().Key)),
		}
	case modeActivityLog:
		body := muted.Render("no activity yet")
		if len(m.activity) > 0 {
			body = renderActivityTable(m.activity, m.cardLabel, width-4)
		}
		lines = []string{
			title.Render("Activity log"),
			body,
			muted.Render(fmt.Sprintf("%s or esc to close", m.keys.activityLog.Help().Key)),
		}
	default:
		return ""
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	muted := lipgloss.NewStyle().Foreground(mutedColor)
	accent := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	workflow := []string{
		accent.Render("Mouse"),
		"click selects a card • double-click edits it",
		"press and hold to lift a card, release over a column or the canvas to drop it",
		"release outside every container to put the card back",
		accent.Render("Clipboard"),
		fmt.Sprintf("%s copies the selected card • %s drops the clipboard onto the focused container",
			m.keys.copyPayload.Help().Key, m.keys.pastePayload.Help().Key),
	}
	lines := []string{
		accent.Render("canban help"),
		"",
		hb.View(m.keys),
		"",
		muted.Render(strings.Join(workflow, "\n")),
		muted.Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}
