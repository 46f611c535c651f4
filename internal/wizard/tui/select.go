package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycastapp/skycast/internal/config"
	"github.com/skycastapp/skycast/internal/geo"
	"github.com/skycastapp/skycast/internal/picker"
)

// Focus order on the selection screen
const (
	focusCountry = iota
	focusState
	focusCity
	focusUnits
	focusButton
	focusCount
)

// Layout constants for the selection screen. The application container
// contributes the outer border and header above the content area.
const (
	contentLeft = 3
	contentTop  = 5
	fieldWidth  = 44
)

// selectKeyMap defines key bindings for the selection screen
type selectKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Close   key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k selectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Confirm, k.Close, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k selectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Confirm, k.Close, k.Quit},
	}
}

func newSelectKeyMap() selectKeyMap {
	return selectKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close list"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// SelectModel is the geo-selection screen: four searchable pickers
// (country, state, city, units) cascading into each other, plus a
// confirm button that opens the forecast.
type SelectModel struct {
	Catalog  *geo.Catalog
	Registry *config.Registry

	Country picker.Model
	State   picker.Model
	City    picker.Model
	Units   picker.Model

	focus int

	selectedCountry *geo.Item
	selectedState   *geo.Item
	selectedCity    *geo.Item
	selectedUnit    *geo.Item

	statusHint string
	buttonY    int

	Width  int
	Height int

	Help help.Model
	Keys selectKeyMap
}

// NewSelectModel creates the selection screen, seeding defaults from the
// saved preferences when they still resolve against the catalog.
func NewSelectModel(catalog *geo.Catalog, registry *config.Registry) SelectModel {
	m := SelectModel{
		Catalog:  catalog,
		Registry: registry,
		Country:  picker.New("country", "Select country").SetItems(catalog.Countries),
		State:    picker.New("state", "Select state"),
		City:     picker.New("city", "Select city"),
		Units:    picker.New("units", "Units"),
		focus:    focusCountry,
		Help:     help.New(),
		Keys:     newSelectKeyMap(),
	}
	m.Units.ShowFlag = false
	m.Units = m.Units.SetItems(catalog.Units)

	m.seedDefaults()
	m.layout()
	return m
}

// seedDefaults applies saved preferences to the pickers.
func (m *SelectModel) seedDefaults() {
	if m.Registry == nil {
		return
	}

	if unit, ok := m.Catalog.UnitByCode(m.Registry.Preferences.Units); ok {
		m.Units = m.Units.SetDefault(unit)
		m.selectedUnit = &unit
	}

	place := m.Registry.Preferences.DefaultPlace
	if place == nil {
		return
	}

	country, ok := m.Catalog.CountryByCode(place.Country)
	if !ok {
		return
	}
	m.Country = m.Country.SetDefault(country)
	m.applyCountry(country)

	state, ok := m.Catalog.StateByCode(place.Country, place.State)
	if !ok {
		return
	}
	flat := flatState(state)
	m.State = m.State.SetDefault(flat)
	m.applyState(flat)

	for _, city := range state.Cities {
		if city.Name == place.City {
			m.City = m.City.SetDefault(city)
			m.selectedCity = &city
			return
		}
	}
}

// Init implements tea.Model
func (m SelectModel) Init() tea.Cmd {
	return m.Country.Init()
}

// Ready reports whether the screen has everything the forecast needs.
func (m SelectModel) Ready() bool {
	return m.selectedCountry != nil && m.selectedCity != nil && m.selectedUnit != nil
}

// Selection returns the committed place and units for the forecast screen.
// Only valid when Ready.
func (m SelectModel) Selection() (country, state, city geo.Item, units string) {
	if m.selectedCountry != nil {
		country = *m.selectedCountry
	}
	if m.selectedState != nil {
		state = *m.selectedState
	}
	if m.selectedCity != nil {
		city = *m.selectedCity
	}
	if m.selectedUnit != nil {
		units = m.selectedUnit.Code
	}
	return country, state, city, units
}

// Update handles messages for the selection screen
func (m SelectModel) Update(msg tea.Msg) (SelectModel, tea.Cmd) {
	m.layout()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case picker.ChangedMsg:
		return m.handleChanged(msg)

	case picker.TextChangedMsg:
		// Typing cleared any committed value for that field
		m.clearStaleSelection(msg.ID)
		return m, nil
	}

	// Route everything else (scheduled close ticks, blink) to all pickers
	return m.routeToPickers(msg)
}

// updateKey handles keystrokes on the selection screen
func (m SelectModel) updateKey(msg tea.KeyMsg) (SelectModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m = m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case "shift+tab":
		m = m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	if m.focus == focusButton {
		if msg.String() == "enter" && m.Ready() {
			return m, m.confirmCmd()
		}
		return m, nil
	}

	// Route to the focused picker
	var cmd tea.Cmd
	switch m.focus {
	case focusCountry:
		m.Country, cmd = m.Country.Update(msg)
	case focusState:
		m.State, cmd = m.State.Update(msg)
	case focusCity:
		m.City, cmd = m.City.Update(msg)
	case focusUnits:
		m.Units, cmd = m.Units.Update(msg)
	}
	m.layout()
	return m, cmd
}

// updateMouse routes pointer events to every picker; each decides
// containment against its own bounds. A click on the confirm button
// triggers it directly.
func (m SelectModel) updateMouse(msg tea.MouseMsg) (SelectModel, tea.Cmd) {
	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if press && msg.Y == m.buttonY && msg.X >= contentLeft && msg.X < contentLeft+20 {
		m = m.setFocus(focusButton)
		if m.Ready() {
			return m, m.confirmCmd()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Country, cmd = m.Country.Update(msg)
	cmds = append(cmds, cmd)
	m.State, cmd = m.State.Update(msg)
	cmds = append(cmds, cmd)
	m.City, cmd = m.City.Update(msg)
	cmds = append(cmds, cmd)
	m.Units, cmd = m.Units.Update(msg)
	cmds = append(cmds, cmd)

	if press {
		// Follow the click with the focus index
		for i, p := range []*picker.Model{&m.Country, &m.State, &m.City, &m.Units} {
			if p.IsOpen() {
				m.focus = i
				break
			}
		}
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

// routeToPickers fans a message out to all four pickers
func (m SelectModel) routeToPickers(msg tea.Msg) (SelectModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Country, cmd = m.Country.Update(msg)
	cmds = append(cmds, cmd)
	m.State, cmd = m.State.Update(msg)
	cmds = append(cmds, cmd)
	m.City, cmd = m.City.Update(msg)
	cmds = append(cmds, cmd)
	m.Units, cmd = m.Units.Update(msg)
	cmds = append(cmds, cmd)
	m.layout()
	return m, tea.Batch(cmds...)
}

// handleChanged applies a committed selection and cascades downstream lists
func (m SelectModel) handleChanged(msg picker.ChangedMsg) (SelectModel, tea.Cmd) {
	item := msg.Item

	switch msg.ID {
	case "country":
		m.applyCountry(item)
		m.statusHint = fmt.Sprintf("✓ %s", item.Name)
		if m.Country.FocusPending() {
			m.focus = focusCountry
		}

	case "state":
		m.applyState(item)
		m.statusHint = fmt.Sprintf("✓ %s", item.Name)
		if m.State.FocusPending() {
			m.focus = focusState
		}

	case "city":
		m.applyCity(item)
		m.statusHint = fmt.Sprintf("✓ %s", item.Name)
		if m.City.FocusPending() {
			m.focus = focusCity
		}

	case "units":
		unit := item
		m.selectedUnit = &unit
		m.statusHint = fmt.Sprintf("✓ %s", item.Name)
		if m.Units.FocusPending() {
			m.focus = focusUnits
		}
	}

	m.layout()
	return m, nil
}

// applyCountry resets the state and city pickers for a new country.
// The city picker initially shows the whole state→city hierarchy, so a
// city can be picked without choosing a state first.
func (m *SelectModel) applyCountry(country geo.Item) {
	c := country
	m.selectedCountry = &c
	m.selectedState = nil
	m.selectedCity = nil

	states := m.Catalog.StatesOf(country.Code)
	if len(states) == 0 {
		m.State = picker.New("state", "Select state")
		m.City = picker.New("city", "Select city")
		return
	}

	m.State = picker.New("state", "Select state").SetItems(flatStates(states))
	m.City = picker.New("city", "Select city").SetItems(states)
}

// applyState narrows the city picker to the chosen state's cities
func (m *SelectModel) applyState(state geo.Item) {
	s := state
	m.selectedState = &s
	m.selectedCity = nil

	if m.selectedCountry == nil {
		return
	}
	cities := m.Catalog.CitiesOf(m.selectedCountry.Code, state.Code)
	if len(cities) == 0 {
		return
	}
	m.City = picker.New("city", "Select city").SetItems(cities)
}

// applyCity records the city and back-fills the state when the city was
// picked from the hierarchical view
func (m *SelectModel) applyCity(city geo.Item) {
	c := city
	m.selectedCity = &c

	if m.selectedState != nil || m.selectedCountry == nil {
		return
	}
	for _, state := range m.Catalog.StatesOf(m.selectedCountry.Code) {
		for _, candidate := range state.Cities {
			if candidate.Same(city) {
				flat := flatState(state)
				m.selectedState = &flat
				m.State = m.State.SetDefault(flat)
				return
			}
		}
	}
}

// clearStaleSelection drops a committed value once its field is being
// re-typed, so Ready() stays truthful
func (m *SelectModel) clearStaleSelection(id string) {
	switch id {
	case "country":
		m.selectedCountry = nil
	case "state":
		m.selectedState = nil
	case "city":
		m.selectedCity = nil
	case "units":
		m.selectedUnit = nil
	}
}

// setFocus moves keyboard focus between the fields and the button
func (m SelectModel) setFocus(target int) SelectModel {
	m.Country = m.Country.Blur()
	m.State = m.State.Blur()
	m.City = m.City.Blur()
	m.Units = m.Units.Blur()

	m.focus = target
	switch target {
	case focusCountry:
		m.Country = m.Country.Focus()
	case focusState:
		m.State = m.State.Focus()
	case focusCity:
		m.City = m.City.Focus()
	case focusUnits:
		m.Units = m.Units.Focus()
	}
	m.layout()
	return m
}

// confirmCmd emits the transition to the forecast screen
func (m SelectModel) confirmCmd() tea.Cmd {
	country, state, city, units := m.Selection()
	return func() tea.Msg {
		return showForecastMsg{
			country: country,
			state:   state,
			city:    city,
			units:   units,
		}
	}
}

// layout recomputes every picker's screen rectangle from the current open
// state, so mouse containment stays accurate as panels expand and collapse
func (m *SelectModel) layout() {
	y := contentTop

	for _, p := range []*picker.Model{&m.Country, &m.State, &m.City, &m.Units} {
		y++ // label line
		*p = p.SetBounds(picker.Rect{X: contentLeft, Y: y, W: fieldWidth})
		y += 1 + panelRows(*p) // field plus open option rows
		y++                    // blank separator
	}

	m.buttonY = y + 1 // inside the button border
}

// panelRows returns how many option rows the picker's open panel occupies
func panelRows(p picker.Model) int {
	if !p.IsOpen() {
		return 0
	}
	cands := p.Candidates()
	if len(cands) == 0 {
		return 0
	}
	if !cands[0].Hierarchical() {
		return len(cands)
	}
	rows := 0
	for _, state := range cands {
		rows += 1 + len(state.Cities)
	}
	return rows
}

// View renders the selection screen
func (m SelectModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Where do you want the forecast for?"))
	b.WriteString("\n")

	fields := []struct {
		label string
		view  string
		index int
	}{
		{"Country", m.Country.View(), focusCountry},
		{"State / Province", m.State.View(), focusState},
		{"City", m.City.View(), focusCity},
		{"Units", m.Units.View(), focusUnits},
	}

	for _, f := range fields {
		labelStyle := FieldLabelStyle
		if m.focus == f.index {
			labelStyle = FocusedFieldLabelStyle
		}
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.view)
		b.WriteString("\n\n")
	}

	b.WriteString(m.buttonView())
	b.WriteString("\n")

	if m.statusHint != "" {
		b.WriteString(SubtitleStyle.Render(m.statusHint))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// buttonView renders the confirm button in its current state
func (m SelectModel) buttonView() string {
	label := "View Forecast →"
	switch {
	case !m.Ready():
		return DisabledButtonStyle.Render(label)
	case m.focus == focusButton:
		return FocusedButtonStyle.Render(label)
	default:
		return ButtonStyle.Render(label)
	}
}

// flatStates strips the city lists off a hierarchical state list for the
// state picker's flat view
func flatStates(states []geo.Item) []geo.Item {
	out := make([]geo.Item, 0, len(states))
	for _, s := range states {
		out = append(out, flatState(s))
	}
	return out
}

func flatState(s geo.Item) geo.Item {
	return geo.Item{Kind: geo.KindState, Name: s.Name, Code: s.Code, Emoji: s.Emoji}
}
