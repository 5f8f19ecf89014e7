package domain

// Budget is a project's budget header. Allocated, Spent and Remaining are
// rolled up from the categories on read.
type Budget struct {
	ID              string           `json:"id"`
	ProjectID       string           `json:"projectId"`
	TotalBudget     float64          `json:"totalBudget"`
	AllocatedBudget float64          `json:"allocatedBudget"`
	SpentBudget     float64          `json:"spentBudget"`
	RemainingBudget float64          `json:"remainingBudget"`
	Categories      []BudgetCategory `json:"categories,omitempty"`
}

func (b *Budget) EntityID() string      { return b.ID }
func (b *Budget) SetEntityID(id string) { b.ID = id }

// Normalize validates the header and drops rolled-up fields so they are
// never persisted.
func (b *Budget) Normalize() error {
	if err := firstErr(
		required("projectId", b.ProjectID),
		nonNegative("totalBudget", b.TotalBudget),
	); err != nil {
		return err
	}
	b.AllocatedBudget, b.SpentBudget, b.RemainingBudget = 0, 0, 0
	b.Categories = nil
	return nil
}

// Rollup attaches categories and derives the allocated, spent and remaining
// totals.
func (b *Budget) Rollup(categories []BudgetCategory) {
	b.Categories = categories
	b.AllocatedBudget, b.SpentBudget = 0, 0
	for _, c := range categories {
		b.AllocatedBudget += c.Allocation
		b.SpentBudget += c.Spent
	}
	b.AllocatedBudget = Round2(b.AllocatedBudget)
	b.SpentBudget = Round2(b.SpentBudget)
	b.RemainingBudget = Round2(b.TotalBudget - b.SpentBudget)
}

type BudgetPatch struct {
	TotalBudget *float64
}

func (bp BudgetPatch) Apply(b *Budget) {
	assign(&b.TotalBudget, bp.TotalBudget)
}

type BudgetCategory struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"projectId"`
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
}

func (c *BudgetCategory) EntityID() string      { return c.ID }
func (c *BudgetCategory) SetEntityID(id string) { c.ID = id }

// Normalize enforces remaining = allocation - spent.
func (c *BudgetCategory) Normalize() error {
	if err := firstErr(
		required("name", c.Name),
		required("projectId", c.ProjectID),
		nonNegative("allocation", c.Allocation),
		nonNegative("spent", c.Spent),
	); err != nil {
		return err
	}
	c.Remaining = Round2(c.Allocation - c.Spent)
	return nil
}

type BudgetCategoryPatch struct {
	Name       *string
	Allocation *float64
	Spent      *float64
}

func (cp BudgetCategoryPatch) Apply(c *BudgetCategory) {
	assign(&c.Name, cp.Name)
	assign(&c.Allocation, cp.Allocation)
	assign(&c.Spent, cp.Spent)
}
