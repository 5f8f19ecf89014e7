package domain

type Expense struct {
	ID              string        `json:"id"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	ProjectID       string        `json:"projectId"`
	Project         string        `json:"project,omitempty"`
	Amount          float64       `json:"amount"`
	Date            string        `json:"date,omitempty"`
	Status          ExpenseStatus `json:"status"`
	SubmittedBy     string        `json:"submittedBy,omitempty"`
	SubmittedByName string        `json:"submittedByName,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

func (e *Expense) EntityID() string      { return e.ID }
func (e *Expense) SetEntityID(id string) { e.ID = id }

func (e *Expense) Normalize() error {
	return firstErr(
		required("description", e.Description),
		nonNegative("amount", e.Amount),
		optionalDate("date", e.Date),
		checkStatus(&e.Status, ExpensePending, ExpensePending, ExpenseApproved, ExpenseRejected),
	)
}

type ExpensePatch struct {
	Description *string
	Category    *string
	Amount      *float64
	Date        *string
	Status      *ExpenseStatus
	Notes       *string
}

func (ep ExpensePatch) Apply(e *Expense) {
	assign(&e.Description, ep.Description)
	assign(&e.Category, ep.Category)
	assign(&e.Amount, ep.Amount)
	assign(&e.Date, ep.Date)
	assign(&e.Status, ep.Status)
	assign(&e.Notes, ep.Notes)
}
