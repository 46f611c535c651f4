package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycastapp/skycast/internal/geo"
	"github.com/skycastapp/skycast/internal/weather"
)

// forecastKeyMap defines key bindings for the forecast screen
type forecastKeyMap struct {
	Refresh key.Binding
	Units   key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k forecastKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Units, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k forecastKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Units, k.Back, k.Quit},
	}
}

func newForecastKeyMap() forecastKeyMap {
	return forecastKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Units: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "toggle units"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Messages for the forecast screen
type forecastFetchedMsg struct {
	forecast *weather.Forecast
	err      error
}

type streamOpenedMsg struct {
	stream *weather.Stream
}

type streamFailedMsg struct {
	err error
}

type streamUpdateMsg struct {
	update weather.StreamUpdate
	ok     bool
}

// ForecastModel fetches and displays the forecast for the selected place,
// then keeps the current conditions fresh over the live-update stream.
type ForecastModel struct {
	Client    *weather.Client
	RelayHost string

	Country geo.Item
	State   geo.Item
	City    geo.Item
	UnitsC  string // "C" or "F"

	Forecast *weather.Forecast
	Err      error
	Loading  bool

	Live       bool
	stream     *weather.Stream
	streamStop context.CancelFunc

	backRequested bool

	Spinner spinner.Model

	Width  int
	Height int

	Help help.Model
	Keys forecastKeyMap
}

// NewForecastModel creates the forecast screen for a committed selection
func NewForecastModel(client *weather.Client, relayHost string, country, state, city geo.Item, units string) ForecastModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ForecastModel{
		Client:    client,
		RelayHost: relayHost,
		Country:   country,
		State:     state,
		City:      city,
		UnitsC:    units,
		Loading:   true,
		Spinner:   s,
		Help:      help.New(),
		Keys:      newForecastKeyMap(),
	}
}

// Init starts the spinner and kicks off the fetch
func (m ForecastModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.fetchCmd())
}

// IsBackRequested reports whether the user asked to return to selection
func (m ForecastModel) IsBackRequested() bool {
	return m.backRequested
}

// Close tears down the live stream when the screen is abandoned
func (m *ForecastModel) Close() {
	if m.streamStop != nil {
		m.streamStop()
		m.streamStop = nil
	}
	m.stream = nil
	m.Live = false
}

// fetchCmd fetches the forecast off the UI goroutine
func (m ForecastModel) fetchCmd() tea.Cmd {
	client := m.Client
	country, state, city := m.Country.Name, m.State.Name, m.City.Name
	return func() tea.Msg {
		forecast, err := client.GetForecast(country, state, city)
		return forecastFetchedMsg{forecast: forecast, err: err}
	}
}

// openStreamCmd connects to the live-update relay
func (m *ForecastModel) openStreamCmd() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.streamStop = cancel

	relay := m.RelayHost
	country, state, city := m.Country.Name, m.State.Name, m.City.Name
	return func() tea.Msg {
		stream, err := weather.OpenStream(ctx, relay, country, state, city)
		if err != nil {
			return streamFailedMsg{err: err}
		}
		return streamOpenedMsg{stream: stream}
	}
}

// waitForUpdateCmd blocks on the stream's update channel
func waitForUpdateCmd(stream *weather.Stream) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-stream.Updates()
		return streamUpdateMsg{update: update, ok: ok}
	}
}

// Update handles messages for the forecast screen
func (m ForecastModel) Update(msg tea.Msg) (ForecastModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.Client.InvalidateCache()
			m.Loading = true
			m.Err = nil
			return m, tea.Batch(m.Spinner.Tick, m.fetchCmd())

		case "u":
			if m.UnitsC == "C" {
				m.UnitsC = "F"
			} else {
				m.UnitsC = "C"
			}
			return m, nil

		case "b", "esc":
			m.Close()
			m.backRequested = true
			return m, nil
		}

	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case forecastFetchedMsg:
		m.Loading = false
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Forecast = msg.forecast
		m.Err = nil
		if m.RelayHost != "" && m.stream == nil {
			return m, m.openStreamCmd()
		}
		return m, nil

	case streamOpenedMsg:
		m.stream = msg.stream
		m.Live = true
		return m, waitForUpdateCmd(msg.stream)

	case streamFailedMsg:
		// Live updates are best effort; the fetched forecast stands
		m.Live = false
		return m, nil

	case streamUpdateMsg:
		if !msg.ok {
			// Stream closed
			m.Live = false
			m.stream = nil
			return m, nil
		}
		if m.Forecast != nil {
			m.Forecast.Current = msg.update.Current
		}
		return m, waitForUpdateCmd(m.stream)
	}

	return m, nil
}

// View renders the forecast screen
func (m ForecastModel) View() string {
	var b strings.Builder

	place := m.City.Name
	if m.State.Name != "" {
		place += ", " + m.State.Name
	}
	place += ", " + m.Country.Name

	title := place
	if m.Country.Emoji != "" {
		title = m.Country.Emoji + " " + title
	}
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")

	switch {
	case m.Loading:
		b.WriteString(fmt.Sprintf("%s Fetching forecast…\n", m.Spinner.View()))

	case m.Err != nil:
		b.WriteString(RenderError(weather.GetShortErrorMessage(m.Err)))
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render(weather.GetTroubleshootingHint(m.Err)))
		b.WriteString("\n")

	case m.Forecast != nil:
		b.WriteString(m.renderForecast())
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderForecast renders the fetched forecast body
func (m ForecastModel) renderForecast() string {
	var b strings.Builder
	f := m.Forecast

	icon := weather.ConditionIcon(f.Current.Condition, f.Current.Icon)
	current := fmt.Sprintf("%s %s  %s (feels like %s)",
		icon, f.Current.Condition,
		weather.FormatTemp(f.Current.TempC, m.UnitsC),
		weather.FormatTemp(f.Current.FeelsLikeC, m.UnitsC))
	b.WriteString(ConditionsStyle.Render(current))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Humidity %d%%  Wind %.0f km/h %s",
		f.Current.Humidity, f.Current.WindKph, f.Current.WindDir))
	if m.Live {
		b.WriteString("  " + LiveIndicatorStyle.Render("● live"))
	}
	b.WriteString("\n\n")

	for _, day := range f.Daily {
		row := fmt.Sprintf("%s  %s %-14s %s / %s",
			day.Date,
			weather.ConditionIcon(day.Condition, day.Icon),
			day.Condition,
			weather.FormatTemp(day.MinTempC, m.UnitsC),
			weather.FormatTemp(day.MaxTempC, m.UnitsC))
		if day.RainPct > 0 {
			row += fmt.Sprintf("  💧%d%%", day.RainPct)
		}
		b.WriteString(OutlookRowStyle.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}
