package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ProjectDetailData holds what the project detail card shows. Budget and
// Estimates are optional.
type ProjectDetailData struct {
	Project   domain.Project
	Budget    *domain.Budget
	Estimates []domain.Estimate
}

// FormatProjectList renders the project table inside a bordered box.
func FormatProjectList(projects []domain.Project) string {
	headers := []string{"ID", "NAME", "CLIENT", "STATUS", "BUDGET", "PROGRESS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleGreen.Render(p.ID),
			Bold(p.Name),
			OrDash(p.Client.Name),
			StatusPill(p.Status),
			Money(p.Budget.Total),
			RenderProgress(p.Completion, 10),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows, 4))
}

// FormatProjectDetail renders the metadata panel beside the budget panel,
// followed by the project's estimates.
func FormatProjectDetail(data ProjectDetailData) string {
	p := data.Project
	meta := KeyValues(
		[2]string{"ID", p.ID},
		[2]string{"Client", p.Client.Name},
		[2]string{"Manager", p.Manager.Name},
		[2]string{"Status", StatusPill(p.Status)},
		[2]string{"Location", p.Location},
		[2]string{"Start", p.StartDate},
		[2]string{"Due", p.DueDate},
		[2]string{"Progress", RenderProgress(p.Completion, 20)},
	)
	if p.Description != "" {
		meta += "\n" + Dim(p.Description) + "\n"
	}
	left := lipgloss.NewStyle().Width(56).Render(Header(p.Name) + "\n" + meta)

	right := Header("Budget") + "\n" + KeyValues(
		[2]string{"Total", Money(p.Budget.Total)},
		[2]string{"Spent", Money(p.Budget.Spent)},
		[2]string{"Remaining", MoneyStyled(p.Budget.Remaining)},
		[2]string{"Used", SpendBar(p.Budget.Spent, p.Budget.Total, 20)},
	)
	if data.Budget != nil && len(data.Budget.Categories) > 0 {
		right += "\n" + FormatBudgetCategories(data.Budget.Categories)
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n")
	if len(data.Estimates) > 0 {
		b.WriteString("\n" + Header("Estimates") + "\n")
		b.WriteString(FormatEstimates(data.Estimates))
	}
	return b.String()
}

// FormatBudget renders the budget header and its categories.
func FormatBudget(b domain.Budget) string {
	head := KeyValues(
		[2]string{"Budget", b.ID},
		[2]string{"Project", b.ProjectID},
		[2]string{"Total", Money(b.TotalBudget)},
		[2]string{"Allocated", Money(b.AllocatedBudget)},
		[2]string{"Spent", Money(b.SpentBudget)},
		[2]string{"Remaining", MoneyStyled(b.RemainingBudget)},
		[2]string{"Used", SpendBar(b.SpentBudget, b.TotalBudget, 20)},
	)
	if len(b.Categories) == 0 {
		return head + "\n" + Dim("No categories.") + "\n"
	}
	return head + "\n" + FormatBudgetCategories(b.Categories)
}

func FormatBudgetCategories(cats []domain.BudgetCategory) string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			c.ID, c.Name, Money(c.Allocation), Money(c.Spent), MoneyStyled(c.Remaining),
		})
	}
	return RenderTable([]string{"ID", "CATEGORY", "ALLOCATED", "SPENT", "REMAINING"}, rows, 2, 3, 4)
}

// FormatReportDetail renders the chart series as rows and the variance table.
func FormatReportDetail(d domain.ReportDetail) string {
	var b strings.Builder
	b.WriteString(Header(d.Title) + "\n")
	b.WriteString(KeyValues(
		[2]string{"ID", d.ID},
		[2]string{"Category", d.Category},
		[2]string{"Author", d.Author},
		[2]string{"Status", StatusPill(d.Status)},
		[2]string{"Updated", d.UpdatedAt},
	))

	headers := append([]string{"SERIES"}, d.Labels...)
	rows := make([][]string, 0, len(d.Datasets))
	for _, s := range d.Datasets {
		row := []string{s.Label}
		for _, v := range s.Data {
			row = append(row, fmt.Sprintf("%g", v))
		}
		rows = append(rows, row)
	}
	b.WriteString("\n" + RenderTable(headers, rows))

	rows = rows[:0]
	for _, r := range d.Table {
		rows = append(rows, []string{r.Name, Money(r.Budget), Money(r.Actual), MoneyStyled(r.Variance)})
	}
	b.WriteString("\n" + RenderTable([]string{"PROJECT", "BUDGET", "ACTUAL", "VARIANCE"}, rows, 1, 2, 3))
	return b.String()
}
