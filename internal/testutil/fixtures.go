package testutil

import (
	"github.com/alexanderramin/buildops/internal/domain"
)

// ClientOption customizes a client draft.
type ClientOption func(*domain.Client)

func WithClientStatus(s domain.ClientStatus) ClientOption {
	return func(c *domain.Client) { c.Status = s }
}

func WithCompany(company string) ClientOption {
	return func(c *domain.Client) { c.Company = company }
}

// NewTestClient returns a valid client draft.
func NewTestClient(name string, opts ...ClientOption) domain.Client {
	c := domain.Client{
		Name:          name,
		Company:       name,
		Email:         "office@example.com",
		Phone:         "(555) 010-0000",
		ContactPerson: "Pat Doe",
		Status:        domain.ClientActive,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// ProjectOption customizes a project draft.
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) { p.Status = s }
}

func WithClientRef(id, name string) ProjectOption {
	return func(p *domain.Project) { p.Client = domain.Ref{ID: id, Name: name} }
}

func WithBudget(total, spent float64) ProjectOption {
	return func(p *domain.Project) { p.Budget = domain.ProjectBudget{Total: total, Spent: spent} }
}

func WithCompletion(pct int) ProjectOption {
	return func(p *domain.Project) { p.Completion = pct }
}

// NewTestProject returns a valid project draft.
func NewTestProject(name string, opts ...ProjectOption) domain.Project {
	p := domain.Project{
		Name:      name,
		Status:    domain.ProjectPlanning,
		Budget:    domain.ProjectBudget{Total: 100000},
		StartDate: "2024-01-01",
		DueDate:   "2024-12-31",
		Location:  "1 Test Way",
		Manager:   domain.Ref{ID: "EMP-001", Name: "John Smith"},
		Team:      []string{"EMP-001"},
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// NewTestEstimate returns a valid estimate draft with one line per
// (quantity, unitPrice) pair.
func NewTestEstimate(projectID, name string, lines ...[2]float64) domain.Estimate {
	e := domain.Estimate{ProjectID: projectID, Name: name, Client: "Test Client", Status: domain.EstimateDraft}
	for _, l := range lines {
		e.Items = append(e.Items, domain.EstimateItem{Description: "line", Quantity: l[0], Unit: "each", UnitPrice: l[1]})
	}
	return e
}

// NewTestCategory returns a budget category draft.
func NewTestCategory(projectID, name string, allocation, spent float64) domain.BudgetCategory {
	return domain.BudgetCategory{ProjectID: projectID, Name: name, Allocation: allocation, Spent: spent}
}
