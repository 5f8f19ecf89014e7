package cli

import (
	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type projectDetailLoadedMsg struct {
	projectID string
	data      formatter.ProjectDetailData
	err       error
}

// projectDetailView shows one project with its budget and estimates. The
// appModel swaps it whenever the selection moves to another project.
type projectDetailView struct {
	state     *SharedState
	projectID string
	vp        viewport.Model
	data      *formatter.ProjectDetailData
	err       error
}

func newProjectDetailView(state *SharedState, projectID string) *projectDetailView {
	vp := viewport.New(max(state.Width, 40), state.ContentHeight())
	return &projectDetailView{state: state, projectID: projectID, vp: vp}
}

func (v *projectDetailView) ID() ViewID { return ViewProjectDetail }

func (v *projectDetailView) Title() string {
	if v.data != nil {
		return v.data.Project.Name
	}
	return v.projectID
}

func (v *projectDetailView) ShortHelp() []key.Binding {
	return []key.Binding{keyBack, keyClear, keyRefresh}
}

func (v *projectDetailView) Init() tea.Cmd {
	return v.load()
}

func (v *projectDetailView) load() tea.Cmd {
	state, id := v.state, v.projectID
	return func() tea.Msg {
		p, ok := state.ActiveProject()
		if !ok || p.ID != id {
			var err error
			if p, err = state.App.Queries.Projects.Get(state.Ctx, id); err != nil {
				return projectDetailLoadedMsg{projectID: id, err: err}
			}
		}
		data, err := loadProjectDetail(state.Ctx, state.App.Queries, p)
		return projectDetailLoadedMsg{projectID: id, data: data, err: err}
	}
}

func (v *projectDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectDetailLoadedMsg:
		if msg.projectID != v.projectID {
			return v, nil
		}
		v.err = msg.err
		if msg.err == nil {
			v.data = &msg.data
			v.vp.SetContent(formatter.FormatProjectDetail(msg.data))
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyClear):
			return v, clearSelectionCmd(v.state)
		case key.Matches(msg, keyRefresh):
			v.state.App.Queries.Client.Invalidate(domain.KindProjects, domain.KindBudgets, domain.KindEstimates)
			return v, v.load()
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *projectDetailView) View() string {
	switch {
	case v.err != nil:
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	case v.data == nil:
		return formatter.Dim("Loading " + v.projectID + "...")
	}
	return v.vp.View()
}
