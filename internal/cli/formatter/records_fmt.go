package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildops/internal/domain"
)

func FormatClients(clients []domain.Client) string {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			c.ID, Bold(c.Name), OrDash(c.Company), c.Email, StatusPill(c.Status),
			strconv.Itoa(c.ProjectCount), Money(c.TotalSpent),
		})
	}
	return RenderTable([]string{"ID", "NAME", "COMPANY", "EMAIL", "STATUS", "PROJECTS", "TOTAL"}, rows, 5, 6)
}

func FormatEstimates(estimates []domain.Estimate) string {
	rows := make([][]string, 0, len(estimates))
	for _, e := range estimates {
		rows = append(rows, []string{
			e.ID, Truncate(e.Name, 40), e.ProjectID, StatusPill(e.Status), Money(e.Amount), OrDash(e.ValidUntil),
		})
	}
	return RenderTable([]string{"ID", "NAME", "PROJECT", "STATUS", "AMOUNT", "VALID UNTIL"}, rows, 4)
}

// FormatEstimateDetail renders one estimate with its priced line items.
func FormatEstimateDetail(e domain.Estimate) string {
	var b strings.Builder
	b.WriteString(Header(e.Name) + "\n")
	b.WriteString(KeyValues(
		[2]string{"ID", e.ID},
		[2]string{"Project", e.ProjectID},
		[2]string{"Client", e.Client},
		[2]string{"Category", e.Category},
		[2]string{"Status", StatusPill(e.Status)},
		[2]string{"Date", e.Date},
		[2]string{"Valid until", e.ValidUntil},
		[2]string{"Amount", Money(e.Amount)},
	))
	rows := make([][]string, 0, len(e.Items))
	for _, it := range e.Items {
		rows = append(rows, []string{
			it.Description, fmt.Sprintf("%g %s", it.Quantity, it.Unit), Money(it.UnitPrice), Money(it.TotalPrice),
		})
	}
	b.WriteString("\n" + RenderTable([]string{"ITEM", "QUANTITY", "UNIT PRICE", "TOTAL"}, rows, 2, 3))
	return b.String()
}

func FormatInvoices(invoices []domain.Invoice) string {
	rows := make([][]string, 0, len(invoices))
	for _, i := range invoices {
		rows = append(rows, []string{
			i.ID, i.ProjectID, i.ClientID, StatusPill(i.Status), Money(i.Amount), OrDash(i.DueDate),
		})
	}
	return RenderTable([]string{"ID", "PROJECT", "CLIENT", "STATUS", "AMOUNT", "DUE"}, rows, 4)
}

func FormatExpenses(expenses []domain.Expense) string {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.ID, Truncate(e.Description, 32), e.Category, e.ProjectID, StatusPill(e.Status), Money(e.Amount), OrDash(e.Date),
		})
	}
	return RenderTable([]string{"ID", "DESCRIPTION", "CATEGORY", "PROJECT", "STATUS", "AMOUNT", "DATE"}, rows, 5)
}

func FormatWages(wages []domain.Wage) string {
	rows := make([][]string, 0, len(wages))
	for _, w := range wages {
		rows = append(rows, []string{
			w.ID, domain.CoalesceStr(w.EmployeeName, w.EmployeeID), w.ProjectID, w.Date,
			fmt.Sprintf("%g", w.Hours), Money(w.Rate), Money(w.Amount),
		})
	}
	return RenderTable([]string{"ID", "EMPLOYEE", "PROJECT", "DATE", "HOURS", "RATE", "AMOUNT"}, rows, 4, 5, 6)
}

func FormatPayrolls(payrolls []domain.Payroll) string {
	rows := make([][]string, 0, len(payrolls))
	for _, p := range payrolls {
		rows = append(rows, []string{
			p.ID, p.Period.Start + " → " + p.Period.End, StatusPill(p.Status),
			strconv.Itoa(p.EmployeeCount), Money(p.TotalAmount), OrDash(p.ProcessedAt),
		})
	}
	return RenderTable([]string{"ID", "PERIOD", "STATUS", "EMPLOYEES", "TOTAL", "PROCESSED"}, rows, 3, 4)
}

func FormatPayrollDetail(p domain.Payroll) string {
	return Header("Payroll "+p.ID) + "\n" + KeyValues(
		[2]string{"Period", p.Period.Start + " → " + p.Period.End},
		[2]string{"Status", StatusPill(p.Status)},
		[2]string{"Employees", strconv.Itoa(p.EmployeeCount)},
		[2]string{"Total", Money(p.TotalAmount)},
		[2]string{"Created", p.CreatedAt},
		[2]string{"Processed", p.ProcessedAt},
	)
}

func FormatProposals(proposals []domain.Proposal) string {
	rows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		rows = append(rows, []string{
			p.ID, Truncate(p.Name, 40), p.Client, StatusPill(p.Status), Money(p.Amount), OrDash(p.ExpiryDate),
		})
	}
	return RenderTable([]string{"ID", "NAME", "CLIENT", "STATUS", "AMOUNT", "EXPIRES"}, rows, 4)
}

func FormatPurchaseOrders(orders []domain.PurchaseOrder) string {
	rows := make([][]string, 0, len(orders))
	for _, po := range orders {
		rows = append(rows, []string{
			po.ID, po.Vendor, domain.CoalesceStr(po.Project, po.ProjectID), StatusPill(po.Status),
			strconv.Itoa(len(po.Items)), Money(po.Total), OrDash(po.DeliveryDate),
		})
	}
	return RenderTable([]string{"ID", "VENDOR", "PROJECT", "STATUS", "ITEMS", "TOTAL", "DELIVERY"}, rows, 4, 5)
}

func FormatReports(reports []domain.Report) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.ID, Truncate(r.Title, 40), r.Category, r.Author, StatusPill(r.Status), OrDash(r.UpdatedAt)})
	}
	return RenderTable([]string{"ID", "TITLE", "CATEGORY", "AUTHOR", "STATUS", "UPDATED"}, rows)
}

func FormatEvents(events []domain.Event) string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.ID, Truncate(e.Title, 36), OrDash(e.ProjectID), e.Start, OrDash(e.Location), StatusPill(e.Status)})
	}
	return RenderTable([]string{"ID", "TITLE", "PROJECT", "START", "LOCATION", "STATUS"}, rows)
}

func FormatTeam(members []domain.TeamMember) string {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.ID, Bold(m.Name), m.Role, m.Department, Money(m.HourlyRate) + "/h",
			OrDash(strings.Join(m.Projects, ", ")), StatusPill(m.Status),
		})
	}
	return RenderTable([]string{"ID", "NAME", "ROLE", "DEPARTMENT", "RATE", "PROJECTS", "STATUS"}, rows, 4)
}

// FormatFinancialSummary renders revenue, receivables and spend side by side.
func FormatFinancialSummary(s domain.FinancialSummary) string {
	var b strings.Builder
	b.WriteString(Header("Financial overview") + "\n")
	b.WriteString(KeyValues(
		[2]string{"Revenue", Money(s.TotalPaid)},
		[2]string{"Expenses", Money(s.TotalExpenses)},
		[2]string{"Net income", MoneyStyled(s.NetIncome)},
		[2]string{"Outstanding", fmt.Sprintf("%s (%d overdue)", Money(s.TotalOverdue), s.OverdueCount)},
	))
	b.WriteString("\n" + Header("Invoices") + "\n")
	b.WriteString(KeyValues(
		[2]string{"Invoiced", Money(s.TotalInvoiced)},
		[2]string{"Paid", Money(s.TotalPaid)},
		[2]string{"Pending", Money(s.TotalPending)},
		[2]string{"Overdue", Money(s.TotalOverdue)},
	))
	b.WriteString("\n" + Header("Expenses") + "\n")
	b.WriteString(KeyValues(
		[2]string{"Total", Money(s.TotalExpenses)},
		[2]string{"Approved", Money(s.ExpensesByStatus[domain.ExpenseApproved])},
		[2]string{"Pending", Money(s.ExpensesByStatus[domain.ExpensePending])},
		[2]string{"Rejected", Money(s.ExpensesByStatus[domain.ExpenseRejected])},
	))
	return b.String()
}
