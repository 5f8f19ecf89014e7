package cli

import (
	"errors"

	"github.com/alexanderramin/buildops/internal/selection"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// navigatedMsg is sent after the history path may have changed. The
// appModel rebuilds the stack from the path.
type navigatedMsg struct {
	err error
}

// noticeMsg carries a one-line status message.
type noticeMsg struct {
	text string
	err  error
}

// formDoneMsg is sent when a form completes or is cancelled. The appModel
// pops the form, then runs next.
type formDoneMsg struct {
	next tea.Cmd
}

// refreshViewMsg asks every view on the stack to reload.
type refreshViewMsg struct{}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func refreshViews() tea.Msg { return refreshViewMsg{} }

// selectProjectCmd selects id through the selection context. A request
// overtaken by a newer one is dropped silently.
func selectProjectCmd(state *SharedState, id string) tea.Cmd {
	return func() tea.Msg {
		err := state.App.Selection.SelectProject(state.Ctx, id)
		if errors.Is(err, selection.ErrSuperseded) {
			return nil
		}
		return navigatedMsg{err: err}
	}
}

func clearSelectionCmd(state *SharedState) tea.Cmd {
	return func() tea.Msg {
		state.App.Selection.ClearSelection()
		return navigatedMsg{}
	}
}

// backCmd steps back through the history; the selection context follows
// the path.
func backCmd(state *SharedState) tea.Cmd {
	return func() tea.Msg {
		if !state.App.History.Back() {
			return nil
		}
		return navigatedMsg{}
	}
}
