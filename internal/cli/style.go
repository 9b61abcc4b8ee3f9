package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/te4it/te4it/internal/domain"
)

// Colors defines the palette used for detail views.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	// Task states
	NotStarted lipgloss.Color
	InProgress lipgloss.Color
	Completed  lipgloss.Color
	Cancelled  lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	NotStarted: lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Completed:  lipgloss.Color("#00B894"), // Green
	Cancelled:  lipgloss.Color("#636E72"), // Gray
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary)
	labelStyle   = lipgloss.NewStyle().Foreground(Colors.Muted)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(Colors.Error)
)

// stateStyle returns the style for a task state.
func stateStyle(s domain.TaskState) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch s {
	case domain.StateNotStarted:
		return style.Foreground(Colors.NotStarted)
	case domain.StateInProgress:
		return style.Foreground(Colors.InProgress)
	case domain.StateCompleted:
		return style.Foreground(Colors.Completed)
	case domain.StateCancelled:
		return style.Foreground(Colors.Cancelled)
	default:
		return style
	}
}

// activeStyle returns the style for an Active/Archived status.
func activeStyle(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Foreground(Colors.Success)
	}
	return lipgloss.NewStyle().Foreground(Colors.Muted)
}

// field renders a "Label: value" line for detail views.
func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}
