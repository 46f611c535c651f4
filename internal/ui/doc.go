// Package ui provides shared lipgloss styling and result boxes for the
// one-shot commands (forecast, stations). The interactive wizard has its
// own styling under internal/wizard/tui.
package ui
