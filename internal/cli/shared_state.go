package cli

import (
	"context"

	"github.com/alexanderramin/buildops/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App
	Ctx context.Context

	// Terminal dimensions
	Width  int
	Height int

	// Notice is shown above the status bar until the next key press.
	Notice string
}

// ActiveProject returns the project held by the selection context.
func (s *SharedState) ActiveProject() (domain.Project, bool) {
	return s.App.Selection.Active()
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: notice + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-4, 1)
}
