package service

import (
	"context"
	"time"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
)

type deps struct {
	uow   db.UnitOfWork
	net   *Network
	locks *keyedLocks
	obs   CallObserver
	now   func() time.Time
}

// Option configures an API.
type Option func(*deps)

// WithNetwork replaces the default simulated network.
func WithNetwork(n *Network) Option {
	return func(d *deps) { d.net = n }
}

// WithObserver reports every call to obs.
func WithObserver(obs CallObserver) Option {
	return func(d *deps) {
		if obs != nil {
			d.obs = obs
		}
	}
}

// WithClock overrides the clock used for timestamps and call durations.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// API groups the per-entity accessors.
type API struct {
	Projects       *Accessor[domain.Project, *domain.Project]
	Clients        *Accessor[domain.Client, *domain.Client]
	Estimates      *Accessor[domain.Estimate, *domain.Estimate]
	Invoices       *Accessor[domain.Invoice, *domain.Invoice]
	Expenses       *Accessor[domain.Expense, *domain.Expense]
	Wages          *Accessor[domain.Wage, *domain.Wage]
	Payrolls       *PayrollAccessor
	Proposals      *Accessor[domain.Proposal, *domain.Proposal]
	PurchaseOrders *Accessor[domain.PurchaseOrder, *domain.PurchaseOrder]
	Reports        *ReportAccessor
	Events         *Accessor[domain.Event, *domain.Event]
	Team           *Accessor[domain.TeamMember, *domain.TeamMember]
	Budgets        *BudgetAccessor
	Settings       *SettingsAccessor
}

// NewAPI wires every accessor over one unit of work.
func NewAPI(uow db.UnitOfWork, opts ...Option) *API {
	d := &deps{
		uow:   uow,
		locks: newKeyedLocks(),
		obs:   NoopCallObserver{},
		now:   time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	if d.net == nil {
		d.net = NewNetwork()
	}

	api := &API{
		Projects:       newAccessor[domain.Project](domain.KindProjects, d),
		Clients:        newAccessor[domain.Client](domain.KindClients, d),
		Estimates:      newAccessor[domain.Estimate](domain.KindEstimates, d),
		Invoices:       newAccessor[domain.Invoice](domain.KindInvoices, d),
		Expenses:       newAccessor[domain.Expense](domain.KindExpenses, d),
		Wages:          newAccessor[domain.Wage](domain.KindWages, d),
		Payrolls:       &PayrollAccessor{Accessor: newAccessor[domain.Payroll](domain.KindPayrolls, d)},
		Proposals:      newAccessor[domain.Proposal](domain.KindProposals, d),
		PurchaseOrders: newAccessor[domain.PurchaseOrder](domain.KindPurchaseOrders, d),
		Reports:        &ReportAccessor{Accessor: newAccessor[domain.Report](domain.KindReports, d)},
		Events:         newAccessor[domain.Event](domain.KindEvents, d),
		Team:           newAccessor[domain.TeamMember](domain.KindTeam, d),
	}
	api.Budgets = newBudgetAccessor(d, api.Projects)
	api.Settings = newSettingsAccessor(d)

	projects := api.Projects.store
	api.Clients.decorate = func(ctx context.Context, clients []domain.Client) error {
		all, err := projects.List(ctx, domain.Filter{})
		if err != nil {
			return err
		}
		for i := range clients {
			domain.RollupClient(&clients[i], all)
		}
		return nil
	}
	return api
}
