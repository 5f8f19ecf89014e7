package domain

import "time"

type Report struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category"`
	Author      string       `json:"author"`
	Status      ReportStatus `json:"status"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

func (r *Report) EntityID() string      { return r.ID }
func (r *Report) SetEntityID(id string) { r.ID = id }

func (r *Report) Stamp(now time.Time, creating bool) {
	today := now.Format(DateLayout)
	if creating && r.CreatedAt == "" {
		r.CreatedAt = today
	}
	r.UpdatedAt = today
}

func (r *Report) Normalize() error {
	return firstErr(
		required("title", r.Title),
		checkStatus(&r.Status, ReportDraft, ReportDraft, ReportPublished),
	)
}

type ReportPatch struct {
	Title       *string
	Description *string
	Category    *string
	Author      *string
	Status      *ReportStatus
}

func (rp ReportPatch) Apply(r *Report) {
	assign(&r.Title, rp.Title)
	assign(&r.Description, rp.Description)
	assign(&r.Category, rp.Category)
	assign(&r.Author, rp.Author)
	assign(&r.Status, rp.Status)
}

// Series is one named data line of a report chart.
type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// VarianceRow compares budgeted and actual spend for one project.
type VarianceRow struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Budget   float64 `json:"budget"`
	Actual   float64 `json:"actual"`
	Variance float64 `json:"variance"`
}

// ReportDetail is a report together with its chart and variance table.
type ReportDetail struct {
	Report
	Labels   []string      `json:"labels"`
	Datasets []Series      `json:"datasets"`
	Table    []VarianceRow `json:"tableData"`
}
