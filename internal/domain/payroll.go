package domain

import "time"

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Payroll struct {
	ID            string        `json:"id"`
	Period        Period        `json:"period"`
	Status        PayrollStatus `json:"status"`
	TotalAmount   float64       `json:"totalAmount"`
	EmployeeCount int           `json:"employeeCount"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	ProcessedAt   string        `json:"processedAt,omitempty"`
}

func (p *Payroll) EntityID() string      { return p.ID }
func (p *Payroll) SetEntityID(id string) { p.ID = id }

func (p *Payroll) Stamp(now time.Time, creating bool) {
	if creating && p.CreatedAt == "" {
		p.CreatedAt = now.Format(DateLayout)
	}
}

func (p *Payroll) Normalize() error {
	if err := firstErr(
		required("period.start", p.Period.Start),
		required("period.end", p.Period.End),
		optionalDate("period.start", p.Period.Start),
		optionalDate("period.end", p.Period.End),
		nonNegative("totalAmount", p.TotalAmount),
		checkStatus(&p.Status, PayrollDraft, PayrollDraft, PayrollProcessing, PayrollPaid),
	); err != nil {
		return err
	}
	if p.Period.End < p.Period.Start {
		return Invalid("period", "ends (%s) before it starts (%s)", p.Period.End, p.Period.Start)
	}
	if p.EmployeeCount < 0 {
		return Invalid("employeeCount", "must not be negative")
	}
	return nil
}

// Advance moves the payroll one step along Draft -> Processing -> Paid.
// Reaching Paid stamps ProcessedAt.
func (p *Payroll) Advance(now time.Time) error {
	switch p.Status {
	case PayrollDraft, "":
		p.Status = PayrollProcessing
	case PayrollProcessing:
		p.Status = PayrollPaid
		p.ProcessedAt = now.Format(DateLayout)
	default:
		return Invalid("status", "payroll %s is already %s", p.ID, p.Status)
	}
	return nil
}

type PayrollPatch struct {
	Period        *Period
	TotalAmount   *float64
	EmployeeCount *int
}

func (pp PayrollPatch) Apply(p *Payroll) {
	assign(&p.Period, pp.Period)
	assign(&p.TotalAmount, pp.TotalAmount)
	assign(&p.EmployeeCount, pp.EmployeeCount)
}
