package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycastapp/skycast/internal/geo"
)

// runCmd executes a command tree and collects every produced message.
// Scheduled commands (the commit-close tick) run to completion, so a test
// that triggers the 200ms close delay observes the real deferred message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func typeString(m Model, s string) (Model, []tea.Msg) {
	var msgs []tea.Msg
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		msgs = append(msgs, runCmd(cmd)...)
	}
	return m, msgs
}

func pressEnter(m Model) (Model, []tea.Msg) {
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m, runCmd(cmd)
}

func leftClick(m Model, x, y int) (Model, []tea.Msg) {
	m, cmd := m.Update(tea.MouseMsg{
		X:      x,
		Y:      y,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	return m, runCmd(cmd)
}

func changedMsgs(msgs []tea.Msg) []ChangedMsg {
	var out []ChangedMsg
	for _, msg := range msgs {
		if c, ok := msg.(ChangedMsg); ok {
			out = append(out, c)
		}
	}
	return out
}

func textChangedMsgs(msgs []tea.Msg) []TextChangedMsg {
	var out []TextChangedMsg
	for _, msg := range msgs {
		if c, ok := msg.(TextChangedMsg); ok {
			out = append(out, c)
		}
	}
	return out
}

func newCityPicker(names ...string) Model {
	m := New("city", "Select a city")
	return m.SetItems(flatItems(names...)).SetBounds(Rect{X: 0, Y: 0, W: 40})
}

func TestNew_StartsUnavailable(t *testing.T) {
	m := New("city", "Select a city")

	if !m.Unavailable() {
		t.Error("new picker should be in the unavailable state")
	}
	if view := m.View(); !strings.Contains(view, "loading") {
		t.Errorf("unavailable view should render the loading placeholder, got %q", view)
	}
}

func TestUnavailable_NeverOpensOrEmits(t *testing.T) {
	m := New("city", "Select a city")

	m = m.Focus()
	if m.IsOpen() {
		t.Error("unavailable picker must not open")
	}

	m, msgs := typeString(m, "abc")
	m, more := pressEnter(m)
	msgs = append(msgs, more...)
	_, more = leftClick(m, 0, 0)
	msgs = append(msgs, more...)

	if len(changedMsgs(msgs)) != 0 || len(textChangedMsgs(msgs)) != 0 {
		t.Errorf("unavailable picker emitted messages: %v", msgs)
	}
}

func TestFocusOpensPanel(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago")

	m = m.Focus()
	if !m.IsOpen() {
		t.Fatal("Focus() should open the panel")
	}
	if !m.Focused() {
		t.Error("Focus() should mark the widget focused")
	}

	m = m.Blur()
	if m.IsOpen() {
		t.Error("Blur() should close the panel")
	}
}

func TestToggle(t *testing.T) {
	m := newCityPicker("Springfield")

	m = m.Toggle()
	if !m.IsOpen() {
		t.Fatal("first toggle should open")
	}
	m = m.Toggle()
	if m.IsOpen() {
		t.Fatal("second toggle should close")
	}
}

func TestTyping_FiltersAndEmitsPerKeystroke(t *testing.T) {
	m := newCityPicker("Springfield", "Spring Valley", "Chicago")
	m = m.Focus()

	m, msgs := typeString(m, "spr")

	texts := textChangedMsgs(msgs)
	if len(texts) != 3 {
		t.Fatalf("got %d TextChangedMsg, want 3 (one per keystroke)", len(texts))
	}
	if texts[2].Text != "spr" {
		t.Errorf("last TextChangedMsg = %q, want \"spr\"", texts[2].Text)
	}
	if texts[2].ID != "city" {
		t.Errorf("TextChangedMsg ID = %q, want \"city\"", texts[2].ID)
	}

	cands := m.Candidates()
	if len(cands) != 2 {
		t.Fatalf("candidates = %d, want 2", len(cands))
	}
	if cands[0].Name != "Springfield" || cands[1].Name != "Spring Valley" {
		t.Errorf("candidates = %v", cands)
	}
}

func TestTyping_ClearsCommittedSelection(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago")
	m = m.SetDefault(geo.Item{Kind: geo.KindCity, Name: "Chicago"})
	m = m.Focus()

	if _, ok := m.Selected(); !ok {
		t.Fatal("default should be committed before typing")
	}

	m, _ = typeString(m, "x")

	if _, ok := m.Selected(); ok {
		t.Error("typing should clear the committed selection")
	}
	// The full field text was logically selected on open, so the first
	// keystroke replaces it rather than appending.
	if got := m.DisplayText(); got != "x" {
		t.Errorf("DisplayText() = %q, want \"x\"", got)
	}
}

func TestPick_CommitsExactlyOnceAndKeepsPanelOpen(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago")
	m = m.Focus()

	chicago := geo.Item{Kind: geo.KindCity, Name: "Chicago"}
	m, cmd := m.Pick(chicago)
	msgs := runCmd(cmd)

	changed := changedMsgs(msgs)
	if len(changed) != 1 {
		t.Fatalf("got %d ChangedMsg, want exactly 1", len(changed))
	}
	if changed[0].Item.Name != "Chicago" || changed[0].ID != "city" {
		t.Errorf("ChangedMsg = %+v", changed[0])
	}

	if !m.IsOpen() {
		t.Error("Pick must not close the panel itself")
	}
	sel, ok := m.Selected()
	if !ok || sel.Name != "Chicago" {
		t.Errorf("Selected() = %v, %v", sel, ok)
	}
	if got := m.DisplayText(); got != "Chicago" {
		t.Errorf("DisplayText() = %q, want formatter output", got)
	}
}

func TestEnter_AmbiguousIsNoop(t *testing.T) {
	m := newCityPicker("Springfield", "Spring Valley")
	m = m.Focus()
	m, _ = typeString(m, "Spr")

	m, msgs := pressEnter(m)

	if len(changedMsgs(msgs)) != 0 {
		t.Error("ambiguous Enter must not commit")
	}
	if !m.IsOpen() {
		t.Error("ambiguous Enter must leave the panel open")
	}
	if _, ok := m.Selected(); ok {
		t.Error("ambiguous Enter must not set a selection")
	}
}

func TestEnter_ZeroMatchesIsNoop(t *testing.T) {
	m := newCityPicker("Springfield", "Spring Valley")
	m = m.Focus()
	m, _ = typeString(m, "zzz")

	m, msgs := pressEnter(m)

	if len(changedMsgs(msgs)) != 0 || !m.IsOpen() {
		t.Error("zero-match Enter must be a silent no-op")
	}
}

func TestEnter_UnambiguousCommitsAndClosesAfterDelay(t *testing.T) {
	m := newCityPicker("Springfield", "Spring Valley")
	m = m.Focus()
	m, _ = typeString(m, "Springfi")

	m, msgs := pressEnter(m)

	changed := changedMsgs(msgs)
	if len(changed) != 1 {
		t.Fatalf("got %d ChangedMsg, want exactly 1", len(changed))
	}
	if changed[0].Item.Name != "Springfield" {
		t.Errorf("committed %q, want Springfield", changed[0].Item.Name)
	}

	// The panel stays open until the deferred close fires.
	if !m.IsOpen() {
		t.Fatal("panel should remain open during the close delay")
	}

	var tick tea.Msg
	for _, msg := range msgs {
		if _, ok := msg.(closeTickMsg); ok {
			tick = msg
		}
	}
	if tick == nil {
		t.Fatal("Enter commit should schedule a close tick")
	}

	m, _ = m.Update(tick)
	if m.IsOpen() {
		t.Error("panel should close when the scheduled tick arrives")
	}
}

func TestEnter_StaleCloseTickIsNoop(t *testing.T) {
	m := newCityPicker("Springfield", "Spring Valley")
	m = m.Focus()
	m, _ = typeString(m, "Springfi")

	m, msgs := pressEnter(m)
	var tick tea.Msg
	for _, msg := range msgs {
		if c, ok := msg.(closeTickMsg); ok {
			tick = c
		}
	}
	if tick == nil {
		t.Fatal("expected a scheduled close tick")
	}

	// The user toggles the panel closed and reopens it before the tick
	// lands; the reopened panel must not be closed by the stale tick.
	m = m.Toggle()
	m = m.Toggle()
	if !m.IsOpen() {
		t.Fatal("panel should be open again")
	}

	m, _ = m.Update(tick)
	if !m.IsOpen() {
		t.Error("stale close tick must not act on the reopened panel")
	}
}

func TestOutsideClick_ClosesAndResetsSearchText(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago")
	m = m.Focus()
	m, _ = typeString(m, "spri")

	if m.SearchValue() != "spri" {
		t.Fatalf("SearchValue() = %q", m.SearchValue())
	}

	m, msgs := leftClick(m, 70, 20)

	if m.IsOpen() {
		t.Error("outside click should force the panel closed")
	}
	if m.SearchValue() != "" {
		t.Errorf("SearchValue() = %q, want empty after close", m.SearchValue())
	}
	if len(changedMsgs(msgs)) != 0 {
		t.Error("outside click must not commit anything")
	}
}

func TestMouse_ClickOnRowPicksIt(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago", "Peoria")
	m = m.Focus()

	// Field renders at Y=0; candidate rows start at Y=1.
	m, msgs := leftClick(m, 2, 2)

	changed := changedMsgs(msgs)
	if len(changed) != 1 {
		t.Fatalf("got %d ChangedMsg, want 1", len(changed))
	}
	if changed[0].Item.Name != "Chicago" {
		t.Errorf("picked %q, want Chicago (second row)", changed[0].Item.Name)
	}
}

func TestMouse_ClickOnFieldToggles(t *testing.T) {
	m := newCityPicker("Springfield")

	m, _ = leftClick(m, 1, 0)
	if !m.IsOpen() {
		t.Fatal("click on the field should open the panel")
	}
	m, _ = leftClick(m, 1, 0)
	if m.IsOpen() {
		t.Fatal("second click on the field should close the panel")
	}
}

func TestMouse_HierarchicalRowsPickCities(t *testing.T) {
	states := []geo.Item{
		stateItem("Illinois", "Springfield", "Chicago"),
		stateItem("Nevada", "Reno"),
	}
	m := New("state", "Select a state").SetItems(states).SetBounds(Rect{X: 0, Y: 0, W: 40})
	m = m.Focus()

	// Rows: 0=field, 1=Illinois header, 2=Springfield, 3=Chicago,
	// 4=Nevada header, 5=Reno.
	m, msgs := leftClick(m, 2, 1)
	if len(changedMsgs(msgs)) != 0 {
		t.Error("state group headers must not be selectable")
	}

	_, msgs = leftClick(m, 2, 3)
	changed := changedMsgs(msgs)
	if len(changed) != 1 || changed[0].Item.Name != "Chicago" {
		t.Fatalf("ChangedMsg = %v, want Chicago", changed)
	}
	if changed[0].Item.Kind != geo.KindCity {
		t.Errorf("picked kind = %v, want KindCity", changed[0].Item.Kind)
	}
}

func TestSetDefault_ResyncsOnIdentityChange(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago")

	springfield := geo.Item{Kind: geo.KindCity, Name: "Springfield"}
	chicago := geo.Item{Kind: geo.KindCity, Name: "Chicago"}

	m = m.SetDefault(springfield)
	sel, ok := m.Selected()
	if !ok || sel.Name != "Springfield" {
		t.Fatalf("Selected() = %v, %v", sel, ok)
	}

	// Same identity: the user's later edits must survive.
	m = m.Focus()
	m, _ = typeString(m, "chi")
	m = m.SetDefault(springfield)
	if _, ok := m.Selected(); ok {
		t.Error("re-supplying the identical default must not overwrite user edits")
	}

	// New identity: unconditional overwrite.
	m = m.SetDefault(chicago)
	sel, ok = m.Selected()
	if !ok || sel.Name != "Chicago" {
		t.Errorf("Selected() = %v, %v; default identity change must re-sync", sel, ok)
	}
}

func TestInputDisabled_RendersReadOnlyLabel(t *testing.T) {
	m := newCityPicker("Springfield")
	m.InputDisabled = true
	m = m.SetDefault(geo.Item{Kind: geo.KindCity, Name: "Springfield"})

	m = m.Focus()
	if m.IsOpen() {
		t.Error("disabled picker must not open")
	}
	if view := m.View(); !strings.Contains(view, "Springfield") {
		t.Errorf("disabled view should show the formatted label, got %q", view)
	}
}

func TestEmptyItems_RendersDisabledPlaceholder(t *testing.T) {
	m := New("city", "Select a city").SetItems([]geo.Item{}).SetBounds(Rect{X: 0, Y: 0, W: 40})

	m = m.Focus()
	if m.IsOpen() {
		t.Fatal("an empty list must not open the panel")
	}
	if view := m.View(); !strings.Contains(view, "Select a city") {
		t.Errorf("empty-list view should render the placeholder, got %q", view)
	}

	m, msgs := typeString(m, "spr")
	m, more := pressEnter(m)
	msgs = append(msgs, more...)
	_, more = leftClick(m, 1, 0)
	msgs = append(msgs, more...)

	if len(changedMsgs(msgs)) != 0 || len(textChangedMsgs(msgs)) != 0 {
		t.Errorf("empty list must never emit, got %v", msgs)
	}
	if len(m.Candidates()) != 0 {
		t.Error("empty list has no candidates")
	}
}

func TestFocusPending_SetOnCommitAndCleared(t *testing.T) {
	m := newCityPicker("Springfield")
	m = m.Focus()

	m, _ = m.Pick(geo.Item{Kind: geo.KindCity, Name: "Springfield"})

	if !m.FocusPending() {
		t.Error("commit should arm the wrapper focus hint")
	}
	if m.FocusPending() {
		t.Error("reading the focus hint should clear it")
	}
}

func TestOpenTransition_ResetsSearchTextBothWays(t *testing.T) {
	m := newCityPicker("Springfield", "Chicago")
	m = m.Focus()
	m, _ = typeString(m, "abc")

	m = m.Toggle() // close
	if m.SearchValue() != "" {
		t.Errorf("close should reset search text, got %q", m.SearchValue())
	}

	m, _ = typeString(m, "zzz") // ignored while closed
	m = m.Toggle()              // open
	if m.SearchValue() != "" {
		t.Errorf("open should start with empty search text, got %q", m.SearchValue())
	}
}
