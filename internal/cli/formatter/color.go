package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a task status.
func StatusPill(status domain.TaskStatus) string {
	switch {
	case status.IsCompleted():
		return StyleDim.Render("✔ " + status.Label())
	case status.IsInProgress():
		return StyleYellow.Render("▶ " + status.Label())
	case status.IsNotStarted():
		return StyleBlue.Render("○ " + status.Label())
	default:
		return StyleDim.Render(string(status))
	}
}

// FloatStyled colors total float: red at or below zero, yellow within a
// working week, plain otherwise.
func FloatStyled(days *int) string {
	if days == nil {
		return Dim("--")
	}
	text := fmt.Sprintf("%dd", *days)
	switch {
	case *days <= 0:
		return StyleRed.Render(text)
	case *days <= 5:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// CriticalMark flags a critical task.
func CriticalMark(critical bool) string {
	if critical {
		return StyleRed.Render("▲")
	}
	return ""
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
