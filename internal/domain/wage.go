package domain

type Wage struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName,omitempty"`
	ProjectID    string  `json:"projectId"`
	Date         string  `json:"date"`
	Hours        float64 `json:"hours"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description,omitempty"`
}

func (w *Wage) EntityID() string      { return w.ID }
func (w *Wage) SetEntityID(id string) { w.ID = id }

// Normalize sets amount = hours * rate.
func (w *Wage) Normalize() error {
	if err := firstErr(
		required("employeeId", w.EmployeeID),
		nonNegative("hours", w.Hours),
		nonNegative("rate", w.Rate),
		optionalDate("date", w.Date),
	); err != nil {
		return err
	}
	w.Amount = Round2(w.Hours * w.Rate)
	return nil
}

type WagePatch struct {
	ProjectID   *string
	Date        *string
	Hours       *float64
	Rate        *float64
	Description *string
}

func (wp WagePatch) Apply(w *Wage) {
	assign(&w.ProjectID, wp.ProjectID)
	assign(&w.Date, wp.Date)
	assign(&w.Hours, wp.Hours)
	assign(&w.Rate, wp.Rate)
	assign(&w.Description, wp.Description)
}
