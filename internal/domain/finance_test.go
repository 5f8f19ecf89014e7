package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeFinances(t *testing.T) {
	invoices := []Invoice{
		{Amount: 1000, Status: InvoicePaid},
		{Amount: 250.5, Status: InvoiceOverdue},
		{Amount: 400, Status: InvoicePending},
		{Amount: 99.5, Status: InvoiceOverdue},
		{Amount: 50, Status: InvoiceDraft},
	}
	expenses := []Expense{
		{Amount: 300, Status: ExpenseApproved},
		{Amount: 120.25, Status: ExpensePending},
		{Amount: 80, Status: ExpenseRejected},
	}

	s := SummarizeFinances(invoices, expenses)
	assert.Equal(t, 1800.0, s.TotalInvoiced)
	assert.Equal(t, 1000.0, s.TotalPaid)
	assert.Equal(t, 350.0, s.TotalOverdue)
	assert.Equal(t, 2, s.OverdueCount)
	assert.Equal(t, 450.0, s.TotalPending)
	assert.Equal(t, 500.25, s.TotalExpenses)
	assert.Equal(t, 120.25, s.ExpensesByStatus[ExpensePending])
	// Rejected expenses still count against net income.
	assert.Equal(t, 499.75, s.NetIncome)
}

func TestSummarizeFinances_Empty(t *testing.T) {
	s := SummarizeFinances(nil, nil)
	assert.Zero(t, s.TotalInvoiced)
	assert.Zero(t, s.NetIncome)
	assert.Len(t, s.ExpensesByStatus, 3)
}
