package domain

import "fmt"

type EstimateItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type Estimate struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"projectId"`
	Name       string         `json:"name"`
	Client     string         `json:"client"`
	Category   string         `json:"category,omitempty"`
	Status     EstimateStatus `json:"status"`
	Amount     float64        `json:"amount"`
	Date       string         `json:"date,omitempty"`
	ValidUntil string         `json:"validUntil,omitempty"`
	Items      []EstimateItem `json:"items"`
}

func (e *Estimate) EntityID() string      { return e.ID }
func (e *Estimate) SetEntityID(id string) { e.ID = id }

// Normalize prices every line item and sets amount to their sum.
func (e *Estimate) Normalize() error {
	if err := firstErr(
		required("name", e.Name),
		optionalDate("date", e.Date),
		optionalDate("validUntil", e.ValidUntil),
		checkStatus(&e.Status, EstimateDraft,
			EstimateDraft, EstimateSent, EstimatePending, EstimateApproved, EstimateRejected),
	); err != nil {
		return err
	}
	if e.Items == nil {
		e.Items = []EstimateItem{}
	}
	var sum float64
	for i := range e.Items {
		it := &e.Items[i]
		field := fmt.Sprintf("items[%d]", i)
		if err := firstErr(
			nonNegative(field+".quantity", it.Quantity),
			nonNegative(field+".unitPrice", it.UnitPrice),
		); err != nil {
			return err
		}
		if it.ID == "" {
			it.ID = fmt.Sprintf("ITEM-%03d", i+1)
		}
		it.TotalPrice = Round2(it.Quantity * it.UnitPrice)
		sum += it.TotalPrice
	}
	e.Amount = Round2(sum)
	return nil
}

type EstimatePatch struct {
	ProjectID  *string
	Name       *string
	Client     *string
	Category   *string
	Status     *EstimateStatus
	Date       *string
	ValidUntil *string
	Items      *[]EstimateItem
}

func (ep EstimatePatch) Apply(e *Estimate) {
	assign(&e.ProjectID, ep.ProjectID)
	assign(&e.Name, ep.Name)
	assign(&e.Client, ep.Client)
	assign(&e.Category, ep.Category)
	assign(&e.Status, ep.Status)
	assign(&e.Date, ep.Date)
	assign(&e.ValidUntil, ep.ValidUntil)
	assign(&e.Items, ep.Items)
}
