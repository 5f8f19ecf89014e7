package formatter

import (
	"fmt"
	"strings"

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

// statusStyles groups every workflow status by tone. Statuses are compared
// case-insensitively since clients and team members use lower case.
var statusStyles = map[string]lipgloss.Style{
	"in progress": StyleGreen,
	"active":      StyleGreen,
	"approved":    StyleGreen,
	"accepted":    StyleGreen,
	"paid":        StyleGreen,
	"published":   StyleGreen,
	"delivered":   StyleGreen,

	"planning":   StyleBlue,
	"draft":      StyleBlue,
	"sent":       StyleBlue,
	"scheduled":  StyleBlue,
	"processing": StyleBlue,

	"pending": StyleYellow,
	"on hold": StyleYellow,
	"overdue": StyleYellow,

	"rejected":  StyleRed,
	"cancelled": StyleRed,
	"inactive":  StyleRed,
}

// StatusPill renders any entity status as a colored "● Status" marker.
// Completed and unknown statuses are dimmed.
func StatusPill[S ~string](status S) string {
	s := string(status)
	if s == "" {
		return StyleDim.Render("--")
	}
	style, ok := statusStyles[strings.ToLower(s)]
	if !ok {
		return StyleDim.Render("✔ " + s)
	}
	return style.Render("● " + s)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string { return StyleDim.Render(text) }

func Bold(text string) string { return StyleBold.Render(text) }
