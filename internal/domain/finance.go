package domain

// FinancialSummary totals invoices and expenses across every project.
type FinancialSummary struct {
	TotalInvoiced float64 `json:"totalInvoiced"`
	TotalPaid     float64 `json:"totalPaid"`
	TotalOverdue  float64 `json:"totalOverdue"`
	// TotalPending is what is invoiced but neither paid nor overdue.
	TotalPending  float64 `json:"totalPending"`
	OverdueCount  int     `json:"overdueCount"`
	TotalExpenses float64 `json:"totalExpenses"`
	// ExpensesByStatus splits TotalExpenses by approval status.
	ExpensesByStatus map[ExpenseStatus]float64 `json:"expensesByStatus"`
	// NetIncome is paid revenue less every expense, whatever its status.
	NetIncome float64 `json:"netIncome"`
}

// SummarizeFinances computes the summary over full invoice and expense
// lists.
func SummarizeFinances(invoices []Invoice, expenses []Expense) FinancialSummary {
	s := FinancialSummary{ExpensesByStatus: map[ExpenseStatus]float64{
		ExpenseApproved: 0, ExpensePending: 0, ExpenseRejected: 0,
	}}
	for _, inv := range invoices {
		s.TotalInvoiced += inv.Amount
		switch inv.Status {
		case InvoicePaid:
			s.TotalPaid += inv.Amount
		case InvoiceOverdue:
			s.TotalOverdue += inv.Amount
			s.OverdueCount++
		}
	}
	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		s.ExpensesByStatus[e.Status] += e.Amount
	}
	s.TotalInvoiced = Round2(s.TotalInvoiced)
	s.TotalPaid = Round2(s.TotalPaid)
	s.TotalOverdue = Round2(s.TotalOverdue)
	s.TotalPending = Round2(s.TotalInvoiced - s.TotalPaid - s.TotalOverdue)
	s.TotalExpenses = Round2(s.TotalExpenses)
	s.NetIncome = Round2(s.TotalPaid - s.TotalExpenses)
	return s
}
