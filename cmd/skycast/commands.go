package main

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skycastapp/skycast/internal/config"
	"github.com/skycastapp/skycast/internal/discovery"
	"github.com/skycastapp/skycast/internal/geo"
	"github.com/skycastapp/skycast/internal/ui"
	"github.com/skycastapp/skycast/internal/weather"
	"github.com/skycastapp/skycast/internal/wizard/tui"
)

// Command flags
var (
	flagCountry  string
	flagState    string
	flagCity     string
	flagUnits    string
	outputFormat string
	scanTimeout  int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(stationsCmd)
}

// wizardCmd launches the interactive TUI (also the default command)
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive weather wizard",
	Long: `Launch the interactive terminal wizard.

The wizard walks you through:
- Choosing a country, state, and city through searchable dropdowns
- Picking your preferred temperature units
- Viewing the forecast with live condition updates

Your selections are saved as defaults for the next run.`,
	Example: `  # Launch the wizard
  skycast wizard
  # Or simply (wizard is default):
  skycast`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	model := tui.NewAppModel(catalog, registry)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	return nil
}

// forecastCmd fetches a forecast without the interactive wizard
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the forecast for a place",
	Long: `Fetch and display the forecast for a place without the wizard.

With no flags, the saved default place from a previous wizard run is used.
The --country and --state flags take catalog codes (US, IL); --city takes
the city name.`,
	Example: `  # Forecast for the saved default place
  skycast forecast

  # Forecast for a specific place
  skycast forecast --country US --state IL --city Springfield

  # Fahrenheit, compact one-liner
  skycast forecast --city Springfield --units F --format compact

  # JSON output for scripting
  skycast forecast --format json`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&flagCountry, "country", "", "Country code (e.g. US)")
	forecastCmd.Flags().StringVar(&flagState, "state", "", "State code (e.g. IL)")
	forecastCmd.Flags().StringVar(&flagCity, "city", "", "City name")
	forecastCmd.Flags().StringVar(&flagUnits, "units", "", "Temperature units (C or F)")
}

func runForecast(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	country, state, city, err := resolvePlace(registry)
	if err != nil {
		return err
	}

	units := flagUnits
	if units == "" {
		units = registry.Preferences.Units
	}

	client := weather.NewClient(registry.Preferences.APIHost)
	if registry.Preferences.AutoDiscover {
		// A LAN weather station beats the public API when one answers
		if stations, scanErr := discovery.QuickScan(); scanErr == nil && len(stations) > 0 {
			client = weather.NewClientWithURL(stations[0].BaseURL())
		}
	}

	forecast, err := client.GetForecast(country, state, city)
	if err != nil {
		fmt.Println(ui.RenderFailure("Forecast unavailable",
			fmt.Errorf("%s", weather.GetShortErrorMessage(err)),
			troubleshootingLines(err)))
		return fmt.Errorf("forecast fetch failed")
	}

	switch outputFormat {
	case "compact":
		fmt.Println(weather.FormatCompact(forecast, units))
	case "json":
		data, err := json.MarshalIndent(forecast, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		width := ui.GetTerminalWidth()
		fmt.Println(ui.ForecastBoxStyle(width).Render(weather.FormatDetailed(forecast, units)))
	}

	return nil
}

// resolvePlace combines flags with the saved default place
func resolvePlace(registry *config.Registry) (country, state, city string, err error) {
	country, state, city = flagCountry, flagState, flagCity

	if place := registry.Preferences.DefaultPlace; place != nil {
		if country == "" {
			country = place.Country
		}
		if state == "" {
			state = place.State
		}
		if city == "" {
			city = place.City
		}
	}

	if city == "" {
		return "", "", "", fmt.Errorf("no city given and no saved default - run the wizard once or pass --city")
	}
	if country == "" {
		return "", "", "", fmt.Errorf("no country given and no saved default - pass --country")
	}

	// Resolve catalog codes to the names the API expects
	catalog, err := loadCatalog()
	if err != nil {
		return "", "", "", err
	}
	countryCode := country
	if c, ok := catalog.CountryByCode(countryCode); ok {
		country = c.Name
	}
	if s, ok := catalog.StateByCode(countryCode, state); ok {
		state = s.Name
	}

	return country, state, city, nil
}

func troubleshootingLines(err error) []string {
	lines := []string{
		"Check your internet connection",
		"Verify the city spelling, or run the wizard to pick it",
		"Set SKYCAST_API_KEY if the service requires a key",
	}
	if weather.IsAuthError(err) {
		lines = append(lines, "Your API key was rejected - check SKYCAST_API_KEY")
	}
	return lines
}

// stationsCmd discovers personal weather stations on the network
var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Scan for personal weather stations on the network",
	Long: `Scan for personal weather stations using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from weather stations and displays
all discovered stations with their IP addresses, IDs, and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  skycast stations

  # Quick 3-second scan
  skycast stations --timeout 3`,
	RunE: runStations,
}

func init() {
	stationsCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runStations(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for weather stations (timeout: %ds)...\n\n", scanTimeout)

	stations, err := discovery.ScanForStations(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(stations) == 0 {
		fmt.Println(ui.NewFailure("No stations found", nil).WithTroubleshooting(
			"Ensure the station is powered on and connected to your network",
			"Verify your computer is on the same network as the station",
			"Try increasing --timeout for slower networks",
		).Render())
		return nil
	}

	registry, err := config.LoadRegistry()
	if err == nil {
		// Remember the stations we saw; failures here are not fatal
		for _, station := range stations {
			registry.UpdateStationLastSeen(station.ID, station.IP)
		}
		_ = registry.Save()
	}

	result := ui.NewSuccess(fmt.Sprintf("Found %d station(s)", len(stations)))
	for _, station := range stations {
		result.AddDetail(station.ID,
			fmt.Sprintf("%s at %s:%d (%s)", station.Hostname, station.IP, station.Port, station.Model()))
	}
	fmt.Println(result.Render())

	return nil
}

// loadCatalog loads the built-in catalog merged with the user's catalog
// file, when one exists
func loadCatalog() (*geo.Catalog, error) {
	path, err := config.GetCatalogPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate catalog path: %w", err)
	}
	catalog, err := geo.LoadUserCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog, nil
}
