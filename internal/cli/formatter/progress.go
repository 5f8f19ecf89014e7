package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion percentage (0..100) as a bar like
// [████░░░░]  45%. Green from 66, yellow from 33, red below.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}

// SpendBar renders spent as a share of total. Green below 66%, yellow
// below 90%, red from there on, including overspend.
func SpendBar(spent, total float64, width int) string {
	if total <= 0 {
		return Dim("--")
	}
	pct := int(spent / total * 100)
	width = max(width, 2)
	filled := min(max(pct, 0), 100) * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleRed
	switch {
	case pct < 66:
		style = StyleGreen
	case pct < 90:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}
