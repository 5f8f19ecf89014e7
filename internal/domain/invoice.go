package domain

type InvoiceItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"projectId"`
	ClientID    string        `json:"clientId"`
	Amount      float64       `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	IssueDate   string        `json:"issueDate,omitempty"`
	DueDate     string        `json:"dueDate,omitempty"`
	PaidDate    string        `json:"paidDate,omitempty"`
	Description string        `json:"description,omitempty"`
	Items       []InvoiceItem `json:"items"`
}

func (i *Invoice) EntityID() string      { return i.ID }
func (i *Invoice) SetEntityID(id string) { i.ID = id }

// Normalize derives the amount from line items when any are present.
func (i *Invoice) Normalize() error {
	if err := firstErr(
		optionalDate("issueDate", i.IssueDate),
		optionalDate("dueDate", i.DueDate),
		optionalDate("paidDate", i.PaidDate),
		checkStatus(&i.Status, InvoiceDraft, InvoiceDraft, InvoicePending, InvoicePaid, InvoiceOverdue),
	); err != nil {
		return err
	}
	if i.Items == nil {
		i.Items = []InvoiceItem{}
	}
	if len(i.Items) > 0 {
		var sum float64
		for _, it := range i.Items {
			sum += it.Amount
		}
		i.Amount = Round2(sum)
	}
	return nonNegative("amount", i.Amount)
}

type InvoicePatch struct {
	Status      *InvoiceStatus
	Amount      *float64
	IssueDate   *string
	DueDate     *string
	PaidDate    *string
	Description *string
	Items       *[]InvoiceItem
}

func (ip InvoicePatch) Apply(i *Invoice) {
	assign(&i.Status, ip.Status)
	assign(&i.Amount, ip.Amount)
	assign(&i.IssueDate, ip.IssueDate)
	assign(&i.DueDate, ip.DueDate)
	assign(&i.PaidDate, ip.PaidDate)
	assign(&i.Description, ip.Description)
	assign(&i.Items, ip.Items)
}
