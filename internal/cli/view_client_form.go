package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/buildops/internal/cli/formatter"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(s, "@") {
		return errors.New("not an email address")
	}
	return nil
}

// clientFormView collects a new client. Field validation runs in the form,
// so only well-formed drafts reach the cache.
type clientFormView struct {
	state *SharedState
	form  *huh.Form
	draft *domain.Client
}

func newClientFormView(state *SharedState) *clientFormView {
	draft := &domain.Client{Status: domain.ClientActive}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&draft.Name).Validate(validateRequired("name")),
			huh.NewInput().Title("Email").Value(&draft.Email).Validate(validateEmail),
			huh.NewInput().Title("Company (optional)").Value(&draft.Company),
			huh.NewInput().Title("Contact person (optional)").Value(&draft.ContactPerson),
			huh.NewInput().Title("Phone (optional)").Value(&draft.Phone),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
	return &clientFormView{state: state, form: form, draft: draft}
}

func (v *clientFormView) ID() ViewID    { return ViewForm }
func (v *clientFormView) Title() string { return "New client" }

func (v *clientFormView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *clientFormView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *clientFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return formDoneMsg{next: func() tea.Msg { return noticeMsg{text: formatter.Dim("Cancelled.")} }}
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		draft := *v.draft
		return v, func() tea.Msg {
			return formDoneMsg{next: createClientCmd(v.state, draft)}
		}
	}
	return v, cmd
}

func (v *clientFormView) View() string {
	return v.form.View()
}

func createClientCmd(state *SharedState, draft domain.Client) tea.Cmd {
	return func() tea.Msg {
		c, err := state.App.Queries.Clients.Create(state.Ctx, draft, query.Callbacks[domain.Client]{})
		if err != nil {
			return noticeMsg{err: err}
		}
		return noticeMsg{text: formatter.StyleGreen.Render("Created client " + c.ID + " " + c.Name)}
	}
}
