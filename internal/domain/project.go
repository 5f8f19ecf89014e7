package domain

import "time"

type ProjectBudget struct {
	Total     float64 `json:"total"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Client      Ref           `json:"client"`
	Status      ProjectStatus `json:"status"`
	Budget      ProjectBudget `json:"budget"`
	Completion  int           `json:"completion"`
	StartDate   string        `json:"startDate,omitempty"`
	DueDate     string        `json:"dueDate,omitempty"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	Manager     Ref           `json:"manager"`
	Team        []string      `json:"team"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	UpdatedAt   string        `json:"updatedAt,omitempty"`
}

func (p *Project) EntityID() string      { return p.ID }
func (p *Project) SetEntityID(id string) { p.ID = id }

func (p *Project) Stamp(now time.Time, creating bool) {
	today := now.Format(DateLayout)
	if creating && p.CreatedAt == "" {
		p.CreatedAt = today
	}
	p.UpdatedAt = today
}

// Normalize recomputes budget.remaining and checks completion bounds.
func (p *Project) Normalize() error {
	if p.Team == nil {
		p.Team = []string{}
	}
	if p.Completion < 0 || p.Completion > 100 {
		return Invalid("completion", "must be between 0 and 100 (got %d)", p.Completion)
	}
	if err := firstErr(
		required("name", p.Name),
		nonNegative("budget.total", p.Budget.Total),
		nonNegative("budget.spent", p.Budget.Spent),
		optionalDate("startDate", p.StartDate),
		optionalDate("dueDate", p.DueDate),
		checkStatus(&p.Status, ProjectPlanning, validProjectStatuses...),
	); err != nil {
		return err
	}
	p.Budget.Remaining = Round2(p.Budget.Total - p.Budget.Spent)
	return nil
}

// ProjectPatch is a partial update for a project.
type ProjectPatch struct {
	Name        *string
	Client      *Ref
	Status      *ProjectStatus
	BudgetTotal *float64
	BudgetSpent *float64
	Completion  *int
	StartDate   *string
	DueDate     *string
	Description *string
	Location    *string
	Manager     *Ref
	Team        *[]string
}

func (pp ProjectPatch) Apply(p *Project) {
	assign(&p.Name, pp.Name)
	assign(&p.Client, pp.Client)
	assign(&p.Status, pp.Status)
	assign(&p.Budget.Total, pp.BudgetTotal)
	assign(&p.Budget.Spent, pp.BudgetSpent)
	assign(&p.Completion, pp.Completion)
	assign(&p.StartDate, pp.StartDate)
	assign(&p.DueDate, pp.DueDate)
	assign(&p.Description, pp.Description)
	assign(&p.Location, pp.Location)
	assign(&p.Manager, pp.Manager)
	assign(&p.Team, pp.Team)
}
