package picker

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skycastapp/skycast/internal/geo"
)

// commitCloseDelay is how long the options panel stays open after an
// Enter commit, so the user sees the selection land before it disappears.
const commitCloseDelay = 200 * time.Millisecond

// ChangedMsg is emitted exactly once per commit (row click or unambiguous
// Enter). The owning form routes on ID.
type ChangedMsg struct {
	ID   string
	Item geo.Item
}

// TextChangedMsg is emitted once per keystroke that edits the search text.
type TextChangedMsg struct {
	ID   string
	Text string
}

// closeTickMsg closes the panel after a commit. The sequence number makes
// ticks from superseded commits, or ticks arriving after the panel already
// transitioned, harmless no-ops.
type closeTickMsg struct {
	id  string
	seq int
}

// Rect is the picker's screen-space bounding box, set by the owning form
// during layout. The mouse containment check uses it to detect outside
// clicks; height is derived from the open panel, so only X, Y, and W matter.
type Rect struct {
	X, Y, W int
}

// selectionState is the tagged editing/committed union: a picker is either
// editing free text or holds exactly one committed item, never both.
type selectionState struct {
	committed bool
	item      geo.Item // valid when committed
	text      string   // valid when editing
}

// Styles holds the lipgloss styles for a picker instance.
type Styles struct {
	Label       lipgloss.Style
	Field       lipgloss.Style
	FieldFocus  lipgloss.Style
	Placeholder lipgloss.Style
	Option      lipgloss.Style
	OptionMatch lipgloss.Style
	GroupHeader lipgloss.Style
	Disabled    lipgloss.Style
}

// DefaultStyles returns the picker's standard look.
func DefaultStyles() Styles {
	return Styles{
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Field:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		FieldFocus:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
		Option:      lipgloss.NewStyle().PaddingLeft(4),
		OptionMatch: lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#43BF6D")).Bold(true),
		GroupHeader: lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#626262")).Bold(true),
		Disabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")).Italic(true),
	}
}

// Model is the searchable single-select dropdown widget.
type Model struct {
	// Configuration
	ShowFlag      bool // render the item's emoji glyph in the field
	InputDisabled bool // read-only formatted label instead of a field
	Styles        Styles

	id          string
	placeholder string

	// Item list. nil means "not yet available" and renders the loading
	// placeholder; an empty list renders the disabled placeholder. Both
	// states ignore input.
	items []geo.Item

	// State
	open    bool
	focused bool
	sel     selectionState
	input   textinput.Model

	// replaceNext arms the type-to-replace affordance: the field's full
	// text is logically selected, so the next editing keystroke replaces
	// it instead of appending.
	replaceNext bool

	// focusPending marks that the wrapper should show a focus hint after
	// the panel closes following a commit.
	focusPending bool

	closeSeq    int
	lastDefault *geo.Item
	bounds      Rect
}

// New creates a picker with the given routing ID and placeholder label.
// Items start in the "not yet available" state; call SetItems to supply
// them.
func New(id, placeholder string) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 64

	return Model{
		ShowFlag:    true,
		Styles:      DefaultStyles(),
		id:          id,
		placeholder: placeholder,
		input:       ti,
	}
}

// ID returns the picker's routing identifier.
func (m Model) ID() string { return m.id }

// SetItems supplies the item list. The current selection is kept only if it
// still identifies an item the caller considers valid; the picker itself
// does not validate membership.
func (m Model) SetItems(items []geo.Item) Model {
	m.items = items
	return m
}

// SetUnavailable puts the picker back into the loading sentinel state.
func (m Model) SetUnavailable() Model {
	m.items = nil
	return m
}

// Unavailable reports whether the item list has not been supplied yet.
func (m Model) Unavailable() bool { return m.items == nil }

// Items returns the full supplied item list.
func (m Model) Items() []geo.Item { return m.items }

// SetBounds records the widget's layout rectangle for mouse containment.
func (m Model) SetBounds(r Rect) Model {
	m.bounds = r
	return m
}

// SetDefault re-syncs the selection from an externally supplied default.
// The overwrite is unconditional whenever the default's identity changes;
// supplying the same default twice is a no-op.
func (m Model) SetDefault(item geo.Item) Model {
	if m.lastDefault != nil && m.lastDefault.Same(item) {
		return m
	}
	def := item
	m.lastDefault = &def
	m.sel = selectionState{committed: true, item: item}
	m.syncField()
	return m
}

// Selected returns the committed item, if any.
func (m Model) Selected() (geo.Item, bool) {
	if m.sel.committed {
		return m.sel.item, true
	}
	return geo.Item{}, false
}

// SearchValue returns the raw search text; empty while a selection is
// committed.
func (m Model) SearchValue() string {
	if m.sel.committed {
		return ""
	}
	return m.sel.text
}

// IsOpen reports whether the options panel is open.
func (m Model) IsOpen() bool { return m.open }

// Focused reports whether the widget (field or wrapper) has focus.
func (m Model) Focused() bool { return m.focused }

// FocusPending reports whether the wrapper should render a focus hint from
// a just-committed selection, and clears the flag.
func (m *Model) FocusPending() bool {
	p := m.focusPending
	m.focusPending = false
	return p
}

// DisplayText is the string shown in the field: the formatted committed
// item, or the raw search text.
func (m Model) DisplayText() string {
	if m.sel.committed {
		return DisplayText(&m.sel.item, "", m.ShowFlag)
	}
	return DisplayText(nil, m.sel.text, m.ShowFlag)
}

// Candidates returns the currently filtered candidate set: the list the
// external row renderer must receive.
func (m Model) Candidates() []geo.Item {
	return Filter(m.items, m.SearchValue())
}

// Focus gives the widget focus and opens the options panel, unless the
// picker is disabled or still loading.
func (m Model) Focus() Model {
	m.focused = true
	if m.interactive() {
		m = m.setOpen(true)
	}
	return m
}

// Blur removes focus and closes the panel.
func (m Model) Blur() Model {
	m.focused = false
	return m.setOpen(false)
}

// Toggle flips the panel, as a click on the field wrapper does.
func (m Model) Toggle() Model {
	if m.open {
		return m.setOpen(false)
	}
	m.focused = true
	if m.interactive() {
		m = m.setOpen(true)
	}
	return m
}

// CloseList closes the options panel. Exposed for the external row
// renderer, which may close the panel itself after a pick.
func (m Model) CloseList() Model {
	return m.setOpen(false)
}

// interactive reports whether the widget accepts input. A nil item list
// (still loading) and an empty one both render the disabled placeholder and
// ignore focus, typing, and clicks.
func (m Model) interactive() bool {
	return !m.InputDisabled && len(m.items) > 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles keyboard, mouse, and scheduled-close messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.focused && m.interactive() {
			return m.updateKey(msg)
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case closeTickMsg:
		if msg.id == m.id && msg.seq == m.closeSeq && m.open {
			m = m.setOpen(false)
		}
		return m, nil
	}

	return m, nil
}

// updateKey handles keystrokes while the widget is focused.
func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.commitOnEnter()

	case "esc":
		return m.setOpen(false), nil
	}

	if !m.open {
		return m, nil
	}

	before := m.input.Value()
	if m.replaceNext && editsText(msg) {
		// Full text is logically selected; the keystroke replaces it.
		m.input.SetValue("")
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if after := m.input.Value(); after != before {
		// Any edit clears the committed selection until the next commit.
		m.sel = selectionState{text: after}
		m.replaceNext = false
		return m, tea.Batch(cmd, m.textChangedCmd(after))
	}
	return m, cmd
}

// editsText reports whether a key would modify the field text.
func editsText(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
		return true
	default:
		return false
	}
}

// commitOnEnter resolves Enter against the full original item list using
// the flat matching rule, and commits iff exactly one candidate matches.
// Zero or multiple matches leave the panel open and change nothing.
func (m Model) commitOnEnter() (Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}

	q := strings.ToLower(m.input.Value())
	matched := filterFlat(m.items, q)
	if len(matched) != 1 {
		return m, nil
	}

	m, cmd := m.commit(matched[0])
	m.closeSeq++
	seq := m.closeSeq
	id := m.id
	tick := tea.Tick(commitCloseDelay, func(time.Time) tea.Msg {
		return closeTickMsg{id: id, seq: seq}
	})
	return m, tea.Batch(cmd, tick)
}

// Pick commits a clicked item. The row renderer calls this with exactly one
// item; the panel is not closed here - the renderer or a subsequent outside
// click does that.
func (m Model) Pick(item geo.Item) (Model, tea.Cmd) {
	return m.commit(item)
}

// commit finalizes a selection: exactly one ChangedMsg, the wrapper focus
// hint armed, and the field re-synced to the formatted item.
func (m Model) commit(item geo.Item) (Model, tea.Cmd) {
	prevSearch := m.SearchValue()
	m.sel = selectionState{committed: true, item: item}
	m.focusPending = true
	m.syncField()

	// While the panel stays open, keep the type-to-replace affordance
	// when the new display text extends what was typed.
	if m.open && strings.HasPrefix(m.DisplayText(), prevSearch) {
		m.replaceNext = true
	}

	return m, m.changedCmd(item)
}

// updateMouse applies the program-wide pointer stream: a left press outside
// the widget's bounds forces the panel closed; presses inside toggle the
// panel or pick the row under the cursor.
func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if !m.contains(msg.X, msg.Y) {
		if m.open {
			m = m.setOpen(false)
		}
		return m, nil
	}

	if !m.interactive() {
		return m, nil
	}

	row := msg.Y - m.bounds.Y
	if row == 0 {
		return m.Toggle(), nil
	}

	if m.open {
		rows := m.visibleRows()
		if i := row - 1; i >= 0 && i < len(rows) && rows[i].selectable {
			return m.Pick(rows[i].item)
		}
	}
	return m, nil
}

// contains reports whether a point lies inside the widget: the field line
// plus the open option rows.
func (m Model) contains(x, y int) bool {
	if x < m.bounds.X || x >= m.bounds.X+m.bounds.W {
		return false
	}
	height := 1
	if m.open {
		height += len(m.visibleRows())
	}
	return y >= m.bounds.Y && y < m.bounds.Y+height
}

// setOpen drives the Closed/Open state machine. Every transition resets the
// search text; opening focuses the field and arms type-to-replace, closing
// blurs it back to the wrapper. The close sequence is bumped so any pending
// commit-close tick becomes stale.
func (m Model) setOpen(open bool) Model {
	if m.open == open {
		return m
	}
	m.open = open
	m.closeSeq++

	// Reset search text on every transition, in both directions.
	if !m.sel.committed {
		m.sel.text = ""
	}
	m.syncField()

	if open {
		m.input.Focus()
		m.replaceNext = true
	} else {
		m.input.Blur()
		m.replaceNext = false
	}
	return m
}

// syncField mirrors the logical display text into the text input.
func (m *Model) syncField() {
	m.input.SetValue(m.DisplayText())
	m.input.CursorEnd()
}

func (m Model) changedCmd(item geo.Item) tea.Cmd {
	id := m.id
	return func() tea.Msg { return ChangedMsg{ID: id, Item: item} }
}

func (m Model) textChangedCmd(text string) tea.Cmd {
	id := m.id
	return func() tea.Msg { return TextChangedMsg{ID: id, Text: text} }
}

// optionRow is one rendered line of the open panel. State group headers are
// not selectable; cities and flat items are.
type optionRow struct {
	item       geo.Item
	selectable bool
	header     bool
}

// visibleRows flattens the candidate set into renderable rows. Hierarchical
// candidates become a state header followed by its matching cities.
func (m Model) visibleRows() []optionRow {
	cands := m.Candidates()
	if len(cands) == 0 {
		return nil
	}

	if !cands[0].Hierarchical() {
		rows := make([]optionRow, 0, len(cands))
		for _, it := range cands {
			rows = append(rows, optionRow{item: it, selectable: true})
		}
		return rows
	}

	var rows []optionRow
	for _, state := range cands {
		rows = append(rows, optionRow{item: state, header: true})
		for _, city := range state.Cities {
			rows = append(rows, optionRow{item: city, selectable: true})
		}
	}
	return rows
}

// View renders the field line plus, when open, the candidate rows.
func (m Model) View() string {
	if m.Unavailable() {
		return m.Styles.Disabled.Render("⏳ " + m.placeholder + " (loading…)")
	}

	if len(m.items) == 0 {
		return m.Styles.Disabled.Render(m.placeholder)
	}

	if m.InputDisabled {
		text := m.DisplayText()
		if text == "" {
			text = m.placeholder
		}
		return m.Styles.Disabled.Render(text)
	}

	var b strings.Builder
	b.WriteString(m.fieldView())

	if m.open {
		for _, row := range m.visibleRows() {
			b.WriteString("\n")
			b.WriteString(m.rowView(row))
		}
	}
	return b.String()
}

// fieldView renders the text field line.
func (m Model) fieldView() string {
	if m.open {
		return m.input.View()
	}

	text := m.DisplayText()
	style := m.Styles.Field
	if text == "" {
		text = m.placeholder
		style = m.Styles.Placeholder
	}
	if m.focused {
		style = m.Styles.FieldFocus
	}
	marker := "▾ "
	return style.Render(marker + text)
}

// rowView renders one option row, highlighting the committed item.
func (m Model) rowView(row optionRow) string {
	if row.header {
		return m.Styles.GroupHeader.Render(row.item.Name)
	}

	label := row.item.Name
	if m.ShowFlag && row.item.Emoji != "" {
		label = row.item.Emoji + " " + label
	}

	if sel, ok := m.Selected(); ok && sel.Same(row.item) {
		return m.Styles.OptionMatch.Render("→ " + label)
	}
	return m.Styles.Option.Render(label)
}
