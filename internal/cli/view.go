package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewProjectList ViewID = iota
	ViewProjectDetail
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

var (
	keyQuit    = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	keyBack    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	keySelect  = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	keyRefresh = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	keyStatus  = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter"))
	keyClient  = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new client"))
	keyClear   = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection"))
)
