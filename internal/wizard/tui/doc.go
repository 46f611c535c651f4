// Package tui implements the interactive SkyCast wizard built on Bubble Tea.
//
// The application is a small screen stack coordinated by AppModel:
//
//	ScreenSelect   - four cascading searchable pickers (country, state,
//	                 city, units) backed by internal/picker, plus a confirm
//	                 button. Committing a country repopulates the state and
//	                 city pickers; committing a state narrows the city list.
//	ScreenForecast - fetches the forecast for the confirmed place, renders
//	                 current conditions and the daily outlook, and keeps the
//	                 conditions fresh over the live-update relay.
//
// Every screen wraps its content in RenderApplicationContainer for a
// consistent full-screen frame with header and contextual footer. Mouse
// support requires the program to be started with tea.WithMouseCellMotion.
package tui
