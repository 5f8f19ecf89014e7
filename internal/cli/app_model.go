package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/selection"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the dashboard. The view stack
// mirrors the history path: the project list at the bottom, a project
// detail on top while the path names a project, and forms above that.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
	quitting  bool
}

func newAppModel(ctx context.Context, app *App) appModel {
	state := &SharedState{App: app, Ctx: ctx}
	return appModel{
		state:     state,
		viewStack: []View{newProjectListView(state)},
		help:      help.New(),
	}
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	// The path may already name a project, e.g. after "select".
	return tea.Batch(m.viewStack[0].Init(), func() tea.Msg { return navigatedMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case navigatedMsg:
		if msg.err != nil {
			m.state.Notice = formatter.StyleRed.Render("Error: " + msg.err.Error())
		}
		return m, m.route()

	case noticeMsg:
		m.state.Notice = msg.text
		if msg.err != nil {
			m.state.Notice = formatter.StyleRed.Render("Error: " + msg.err.Error())
		}
		return m, nil

	case formDoneMsg:
		if v := m.activeView(); v != nil && v.ID() == ViewForm {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Sequence(msg.next, refreshViews)

	case refreshViewMsg:
		// Broadcast so views under a form reload after its mutation.
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	m.state.Notice = ""

	v := m.activeView()
	if v == nil {
		return m, nil
	}
	// Forms own every other key, esc included.
	if v.ID() != ViewForm {
		switch {
		case key.Matches(msg, keyQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keyBack):
			return m, backCmd(m.state)
		}
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

// route rebuilds the view stack from the history path. Open forms are
// kept on top.
func (m *appModel) route() tea.Cmd {
	var forms []View
	for _, v := range m.viewStack[1:] {
		if v.ID() == ViewForm {
			forms = append(forms, v)
		}
	}
	base := []View{m.viewStack[0]}

	id, ok := selection.ProjectIDFromPath(m.state.App.History.Path())
	if !ok {
		m.viewStack = append(base, forms...)
		return nil
	}
	for _, v := range m.viewStack[1:] {
		if d, isDetail := v.(*projectDetailView); isDetail && d.projectID == id {
			m.viewStack = append(append(base, d), forms...)
			return nil
		}
	}
	d := newProjectDetailView(m.state, id)
	m.viewStack = append(append(base, d), forms...)
	return d.Init()
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	v := m.activeView()
	if v == nil {
		return ""
	}

	crumbs := make([]string, 0, len(m.viewStack))
	for _, sv := range m.viewStack {
		crumbs = append(crumbs, sv.Title())
	}
	title := formatter.StyleHeader.Render("BUILDOPS") + formatter.Dim(" › "+strings.Join(crumbs, " › "))
	if p, ok := m.state.ActiveProject(); ok {
		title += formatter.Dim("  ·  active: ") + formatter.StyleGreen.Render(p.ID)
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(formatter.Dim(strings.Repeat("─", max(m.state.Width, 20))) + "\n")
	b.WriteString(v.View())
	b.WriteString("\n")
	if m.state.Notice != "" {
		b.WriteString(m.state.Notice + "\n")
	}
	hints := v.ShortHelp()
	if v.ID() != ViewForm {
		hints = append(hints, keyQuit)
	}
	b.WriteString(m.help.ShortHelpView(hints))
	return b.String()
}
