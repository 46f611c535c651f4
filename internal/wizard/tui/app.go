package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/skycastapp/skycast/internal/config"
	"github.com/skycastapp/skycast/internal/geo"
	"github.com/skycastapp/skycast/internal/logging"
	"github.com/skycastapp/skycast/internal/weather"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenSelect   Screen = "select"
	ScreenForecast Screen = "forecast"
)

// showForecastMsg carries a confirmed selection into the forecast screen
type showForecastMsg struct {
	country geo.Item
	state   geo.Item
	city    geo.Item
	units   string
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen Screen

	// Screen models
	SelectModel   SelectModel
	ForecastModel ForecastModel

	// Shared application state
	Catalog  *geo.Catalog
	Registry *config.Registry
	Client   *weather.Client

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the selection screen
func NewAppModel(catalog *geo.Catalog, registry *config.Registry) AppModel {
	client := weather.NewClient(registry.Preferences.APIHost)

	return AppModel{
		CurrentScreen: ScreenSelect,
		SelectModel:   NewSelectModel(catalog, registry),
		Catalog:       catalog,
		Registry:      registry,
		Client:        client,
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.SelectModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.SelectModel.Width = msg.Width
		m.SelectModel.Height = msg.Height
		m.ForecastModel.Width = msg.Width
		m.ForecastModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			m.ForecastModel.Close()
			return m, tea.Quit
		}

	case showForecastMsg:
		return m.transitionToForecast(msg)
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenSelect:
		m.SelectModel, cmd = m.SelectModel.Update(msg)

	case ScreenForecast:
		m.ForecastModel, cmd = m.ForecastModel.Update(msg)

		// Quit directly from the forecast screen
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "q" {
			m.ForecastModel.Close()
			return m, tea.Quit
		}

		if m.ForecastModel.IsBackRequested() {
			m.CurrentScreen = ScreenSelect
			m.SelectModel.Width = m.Width
			m.SelectModel.Height = m.Height
			return m, nil
		}
	}

	return m, cmd
}

// transitionToForecast persists the confirmed selection as the new default
// place and opens the forecast screen
func (m AppModel) transitionToForecast(msg showForecastMsg) (tea.Model, tea.Cmd) {
	m.persistSelection(msg)

	m.ForecastModel = NewForecastModel(
		m.Client,
		m.Registry.Preferences.RelayHost,
		msg.country,
		msg.state,
		msg.city,
		msg.units,
	)
	m.ForecastModel.Width = m.Width
	m.ForecastModel.Height = m.Height
	m.CurrentScreen = ScreenForecast

	return m, m.ForecastModel.Init()
}

// persistSelection saves the chosen place and units back to the registry.
// Saving is best effort; a failure never blocks the forecast.
func (m AppModel) persistSelection(msg showForecastMsg) {
	m.Registry.SetDefaultPlace(msg.country.Code, msg.state.Code, msg.city.Name)
	m.Registry.SetUnits(msg.units)

	if err := m.Registry.Save(); err != nil {
		logging.Warn("Failed to save preferences", zap.Error(err))
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenForecast:
		return m.ForecastModel.View()
	default:
		return m.SelectModel.View()
	}
}
