package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Detail is one labelled row in a result box. Rows render in the order
// they were added, so scan listings keep their discovery order.
type Detail struct {
	Key   string
	Value string
}

// Result is a styled outcome box for the one-shot CLI commands: a green
// double-border summary on success, a red one with troubleshooting tips
// on failure.
type Result struct {
	Title           string
	Details         []Detail
	Err             error
	Troubleshooting []string
	Width           int

	failed bool
}

// NewSuccess creates a success result box.
func NewSuccess(title string) *Result {
	return &Result{Title: title, Width: GetTerminalWidth()}
}

// NewFailure creates a failure result box. err may be nil when the title
// says it all.
func NewFailure(title string, err error) *Result {
	return &Result{Title: title, Err: err, Width: GetTerminalWidth(), failed: true}
}

// AddDetail appends a labelled row.
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// WithTroubleshooting sets the troubleshooting tips shown under a failure.
func (r *Result) WithTroubleshooting(tips ...string) *Result {
	r.Troubleshooting = tips
	return r
}

// SetWidth overrides the detected terminal width.
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// Render returns the styled result box as a string.
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	if r.failed {
		return ErrorBoxStyle(width).Render(r.failureContent(width))
	}
	return SuccessBoxStyle(width).Render(r.successContent())
}

func (r *Result) successContent() string {
	lines := []string{
		SuccessTitleStyle.Render(SuccessMarker + "  " + r.Title),
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
		lines = append(lines, r.detailLines()...)
	}
	return strings.Join(lines, "\n")
}

func (r *Result) failureContent(width int) string {
	lines := []string{
		ErrorTitleStyle.Render(FailureMarker + "  " + r.Title),
	}
	if r.Err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render(r.Err.Error()))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
		lines = append(lines, r.detailLines()...)
	}
	if len(r.Troubleshooting) > 0 {
		lines = append(lines, "", r.troubleshootingBox(width))
	}
	return strings.Join(lines, "\n")
}

func (r *Result) detailLines() []string {
	out := make([]string, 0, len(r.Details))
	for _, d := range r.Details {
		out = append(out, ResultKeyStyle.Render(d.Key)+" "+ResultValueStyle.Render(d.Value))
	}
	return out
}

// troubleshootingBox renders the muted inner box of tips under a failure.
func (r *Result) troubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// RenderFailure renders a failure box with the given title, error, and
// troubleshooting tips.
func RenderFailure(title string, err error, troubleshooting []string) string {
	return NewFailure(title, err).WithTroubleshooting(troubleshooting...).Render()
}
