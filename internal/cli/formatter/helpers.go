package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Money formats an amount in dollars, e.g. "$1,250,000" or "$1,220.63".
// Whole amounts drop the cents.
func Money(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	digits := 2
	if v == float64(int64(v)) {
		digits = 0
	}
	return sign + "$" + humanize.CommafWithDigits(v, digits)
}

// MoneyStyled colors negative amounts red.
func MoneyStyled(v float64) string {
	if v < 0 {
		return StyleRed.Render(Money(v))
	}
	return Money(v)
}

// OrDash returns s, or a dimmed "--" when s is empty.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

// KeyValues renders label/value pairs with the labels aligned.
func KeyValues(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s  %s\n", Dim(p[0]+strings.Repeat(" ", width-lipgloss.Width(p[0]))), OrDash(p[1]))
	}
	return b.String()
}

// ExportLinks renders a titled list of label/URL pairs.
func ExportLinks(links ...[2]string) string {
	if len(links) == 0 {
		return ""
	}
	return Header("Exports") + "\n" + KeyValues(links...)
}

// Truncate shortens s to width runes, ending with an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
