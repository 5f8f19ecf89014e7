package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// statusCycle is the order "s" steps through; the empty status shows all.
var statusCycle = []domain.ProjectStatus{
	"", domain.ProjectPlanning, domain.ProjectInProgress, domain.ProjectOnHold,
	domain.ProjectCompleted, domain.ProjectCancelled,
}

type projectsLoadedMsg struct {
	filter   domain.Filter
	projects []domain.Project
	err      error
}

// projectListView shows the project table, optionally filtered by status.
type projectListView struct {
	state    *SharedState
	table    table.Model
	projects []domain.Project
	status   int
	loading  bool
	err      error
}

func newProjectListView(state *SharedState) *projectListView {
	t := table.New(
		table.WithColumns(projectColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Foreground(formatter.ColorHeader).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorBlue).Bold(false)
	t.SetStyles(styles)

	return &projectListView{state: state, table: t, loading: true}
}

func projectColumns(width int) []table.Column {
	name := max(width-8-22-13-14-10-12, 16)
	return []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Name", Width: name},
		{Title: "Client", Width: 22},
		{Title: "Status", Width: 13},
		{Title: "Budget", Width: 14},
		{Title: "Done", Width: 6},
	}
}

func (v *projectListView) ID() ViewID    { return ViewProjectList }
func (v *projectListView) Title() string { return "Projects" }

func (v *projectListView) ShortHelp() []key.Binding {
	return []key.Binding{keySelect, keyStatus, keyClient, keyRefresh}
}

func (v *projectListView) filter() domain.Filter {
	s := statusCycle[v.status]
	if s == "" {
		return domain.Filter{}
	}
	return domain.MustFilter(domain.KindProjects, domain.Eq("status", string(s)))
}

func (v *projectListView) Init() tea.Cmd {
	return v.load(false)
}

// load reads through the cache; force refetches the current filter.
func (v *projectListView) load(force bool) tea.Cmd {
	q, ctx, f := v.state.App.Queries, v.state.Ctx, v.filter()
	return func() tea.Msg {
		if force {
			if _, err := q.Client.Refetch(ctx, q.Projects.ListKey(f)); err != nil {
				return projectsLoadedMsg{filter: f, err: err}
			}
		}
		projects, err := q.Projects.List(ctx, f)
		return projectsLoadedMsg{filter: f, projects: projects, err: err}
	}
}

func (v *projectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.filter.Canonical() != v.filter().Canonical() {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.projects = msg.projects
			v.table.SetRows(projectRows(msg.projects))
			v.table.SetCursor(min(v.table.Cursor(), max(len(msg.projects)-1, 0)))
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load(false)

	case tea.WindowSizeMsg:
		v.table.SetColumns(projectColumns(msg.Width))
		v.table.SetHeight(max(v.state.ContentHeight()-3, 3))
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keySelect):
			if i := v.table.Cursor(); i >= 0 && i < len(v.projects) {
				return v, selectProjectCmd(v.state, v.projects[i].ID)
			}
			return v, nil
		case key.Matches(msg, keyStatus):
			v.status = (v.status + 1) % len(statusCycle)
			v.loading = true
			v.table.SetCursor(0)
			return v, v.load(false)
		case key.Matches(msg, keyRefresh):
			return v, v.load(true)
		case key.Matches(msg, keyClient):
			return v, pushView(newClientFormView(v.state))
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func projectRows(projects []domain.Project) []table.Row {
	rows := make([]table.Row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, table.Row{
			p.ID, p.Name, p.Client.Name, string(p.Status),
			formatter.Money(p.Budget.Total), fmt.Sprintf("%d%%", p.Completion),
		})
	}
	return rows
}

func (v *projectListView) View() string {
	var b strings.Builder
	status := formatter.Dim("all")
	if s := statusCycle[v.status]; s != "" {
		status = formatter.StatusPill(s)
	}
	b.WriteString(formatter.Dim("Status: ") + status + "\n\n")

	switch {
	case v.loading:
		b.WriteString(formatter.Dim("Loading projects..."))
	case v.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + v.err.Error()))
	case len(v.projects) == 0:
		b.WriteString(formatter.Dim("No projects found."))
	default:
		b.WriteString(v.table.View())
	}
	return b.String()
}
