package query

import (
	"context"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/repository"
	"github.com/alexanderramin/buildops/internal/service"
)

// dependents lists the kinds whose read models embed data of the key kind.
// Client counters are rolled up from projects and a budget header is sized
// from its project.
var dependents = map[domain.Kind][]domain.Kind{
	domain.KindProjects: {domain.KindClients, domain.KindBudgets},
}

func affected(kind domain.Kind) []domain.Kind {
	return append([]domain.Kind{kind}, dependents[kind]...)
}

// Resource binds one entity accessor to the cache.
type Resource[T any, P repository.EntityPtr[T]] struct {
	c *Client
	a *service.Accessor[T, P]
}

// NewResource binds a to c.
func NewResource[T any, P repository.EntityPtr[T]](c *Client, a *service.Accessor[T, P]) *Resource[T, P] {
	return &Resource[T, P]{c: c, a: a}
}

func (r *Resource[T, P]) Kind() domain.Kind { return r.a.Kind() }

func (r *Resource[T, P]) ListKey(f domain.Filter) Key { return ListKey(r.a.Kind(), f) }

func (r *Resource[T, P]) IDKey(id string) Key { return IDKey(r.a.Kind(), id) }

func (r *Resource[T, P]) lister(f domain.Filter) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) { return r.a.List(ctx, f) }
}

func (r *Resource[T, P]) getter(id string) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) { return r.a.GetByID(ctx, id) }
}

// List fetches a filtered list through the cache.
func (r *Resource[T, P]) List(ctx context.Context, f domain.Filter) ([]T, error) {
	return Fetch(ctx, r.c, r.ListKey(f), r.lister(f))
}

// ReadList returns the cached list without waiting.
func (r *Resource[T, P]) ReadList(f domain.Filter) ([]T, Snapshot) {
	return Read(r.c, r.ListKey(f), r.lister(f))
}

// WatchList subscribes fn to a filtered list.
func (r *Resource[T, P]) WatchList(f domain.Filter, fn func(Snapshot)) (Snapshot, func()) {
	return r.c.Subscribe(r.ListKey(f), erase(r.lister(f)), fn)
}

// Get fetches one record through the cache.
func (r *Resource[T, P]) Get(ctx context.Context, id string) (T, error) {
	return Fetch(ctx, r.c, r.IDKey(id), r.getter(id))
}

// ReadOne returns the cached record without waiting.
func (r *Resource[T, P]) ReadOne(id string) (T, Snapshot) {
	return Read(r.c, r.IDKey(id), r.getter(id))
}

// WatchOne subscribes fn to one record.
func (r *Resource[T, P]) WatchOne(id string, fn func(Snapshot)) (Snapshot, func()) {
	return r.c.Subscribe(r.IDKey(id), erase(r.getter(id)), fn)
}

// Create adds a record and invalidates the kind.
func (r *Resource[T, P]) Create(ctx context.Context, draft T, cb Callbacks[T]) (T, error) {
	return Mutate(ctx, r.c, func(ctx context.Context) (T, error) {
		return r.a.Create(ctx, draft)
	}, cb, affected(r.a.Kind())...)
}

// Update patches a record and invalidates the kind.
func (r *Resource[T, P]) Update(ctx context.Context, id string, patch domain.Patch[T], cb Callbacks[T]) (T, error) {
	return Mutate(ctx, r.c, func(ctx context.Context) (T, error) {
		return r.a.Update(ctx, id, patch)
	}, cb, affected(r.a.Kind())...)
}

// Delete removes a record and invalidates the kind.
func (r *Resource[T, P]) Delete(ctx context.Context, id string, cb Callbacks[string]) error {
	_, err := Mutate(ctx, r.c, func(ctx context.Context) (string, error) {
		return id, r.a.Delete(ctx, id)
	}, cb, affected(r.a.Kind())...)
	return err
}

// BudgetResource caches per-project budgets.
type BudgetResource struct {
	c *Client
	a *service.BudgetAccessor
}

// BudgetKey keys the budget of one project.
func BudgetKey(projectID string) Key {
	return Key{Kind: domain.KindBudgets, Scope: "project", Params: projectID}
}

func (r *BudgetResource) getter(projectID string) func(context.Context) (domain.Budget, error) {
	return func(ctx context.Context) (domain.Budget, error) { return r.a.GetByProject(ctx, projectID) }
}

func (r *BudgetResource) Get(ctx context.Context, projectID string) (domain.Budget, error) {
	return Fetch(ctx, r.c, BudgetKey(projectID), r.getter(projectID))
}

func (r *BudgetResource) Read(projectID string) (domain.Budget, Snapshot) {
	return Read(r.c, BudgetKey(projectID), r.getter(projectID))
}

func (r *BudgetResource) Update(ctx context.Context, projectID string, patch domain.BudgetPatch, cb Callbacks[domain.Budget]) (domain.Budget, error) {
	return Mutate(ctx, r.c, func(ctx context.Context) (domain.Budget, error) {
		return r.a.Update(ctx, projectID, patch)
	}, cb, domain.KindBudgets)
}

func (r *BudgetResource) AddCategory(ctx context.Context, projectID string, draft domain.BudgetCategory, cb Callbacks[domain.BudgetCategory]) (domain.BudgetCategory, error) {
	return Mutate(ctx, r.c, func(ctx context.Context) (domain.BudgetCategory, error) {
		return r.a.AddCategory(ctx, projectID, draft)
	}, cb, domain.KindBudgets, domain.KindBudgetCategories)
}

func (r *BudgetResource) UpdateCategory(ctx context.Context, projectID, categoryID string, patch domain.BudgetCategoryPatch, cb Callbacks[domain.BudgetCategory]) (domain.BudgetCategory, error) {
	return Mutate(ctx, r.c, func(ctx context.Context) (domain.BudgetCategory, error) {
		return r.a.UpdateCategory(ctx, projectID, categoryID, patch)
	}, cb, domain.KindBudgets, domain.KindBudgetCategories)
}

func (r *BudgetResource) DeleteCategory(ctx context.Context, projectID, categoryID string, cb Callbacks[string]) error {
	_, err := Mutate(ctx, r.c, func(ctx context.Context) (string, error) {
		return categoryID, r.a.DeleteCategory(ctx, projectID, categoryID)
	}, cb, domain.KindBudgets, domain.KindBudgetCategories)
	return err
}

// Queries groups the cached resources over one API.
type Queries struct {
	Client *Client
	API    *service.API

	Projects       *Resource[domain.Project, *domain.Project]
	Clients        *Resource[domain.Client, *domain.Client]
	Estimates      *Resource[domain.Estimate, *domain.Estimate]
	Invoices       *Resource[domain.Invoice, *domain.Invoice]
	Expenses       *Resource[domain.Expense, *domain.Expense]
	Wages          *Resource[domain.Wage, *domain.Wage]
	Payrolls       *Resource[domain.Payroll, *domain.Payroll]
	Proposals      *Resource[domain.Proposal, *domain.Proposal]
	PurchaseOrders *Resource[domain.PurchaseOrder, *domain.PurchaseOrder]
	Reports        *Resource[domain.Report, *domain.Report]
	Events         *Resource[domain.Event, *domain.Event]
	Team           *Resource[domain.TeamMember, *domain.TeamMember]
	Budgets        *BudgetResource
	Settings       *Settings
}

// NewQueries binds every accessor of api to c.
func NewQueries(c *Client, api *service.API) *Queries {
	return &Queries{
		Client:         c,
		API:            api,
		Projects:       NewResource(c, api.Projects),
		Clients:        NewResource(c, api.Clients),
		Estimates:      NewResource(c, api.Estimates),
		Invoices:       NewResource(c, api.Invoices),
		Expenses:       NewResource(c, api.Expenses),
		Wages:          NewResource(c, api.Wages),
		Payrolls:       NewResource(c, api.Payrolls.Accessor),
		Proposals:      NewResource(c, api.Proposals),
		PurchaseOrders: NewResource(c, api.PurchaseOrders),
		Reports:        NewResource(c, api.Reports.Accessor),
		Events:         NewResource(c, api.Events),
		Team:           NewResource(c, api.Team),
		Budgets:        &BudgetResource{c: c, a: api.Budgets},
		Settings:       newSettings(c, api.Settings),
	}
}

// ProcessPayroll advances a payroll and invalidates payrolls.
func (q *Queries) ProcessPayroll(ctx context.Context, id string, cb Callbacks[domain.Payroll]) (domain.Payroll, error) {
	return Mutate(ctx, q.Client, func(ctx context.Context) (domain.Payroll, error) {
		return q.API.Payrolls.Process(ctx, id)
	}, cb, domain.KindPayrolls)
}

// ReportDetail fetches a report with its chart data through the cache.
func (q *Queries) ReportDetail(ctx context.Context, id string) (domain.ReportDetail, error) {
	key := Key{Kind: domain.KindReports, Scope: "detail", Params: id}
	return Fetch(ctx, q.Client, key, func(ctx context.Context) (domain.ReportDetail, error) {
		return q.API.Reports.Detail(ctx, id)
	})
}
