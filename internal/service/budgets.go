package service

import (
	"context"
	"time"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/repository"
)

// BudgetAccessor serves a project's budget header and its categories. All
// calls for one project are serialized.
type BudgetAccessor struct {
	budgets    *repository.Store[domain.Budget, *domain.Budget]
	categories *repository.Store[domain.BudgetCategory, *domain.BudgetCategory]
	projects   *repository.Store[domain.Project, *domain.Project]
	uow        db.UnitOfWork
	net        *Network
	locks      *keyedLocks
	obs        CallObserver
	now        func() time.Time
}

func newBudgetAccessor(d *deps, projects *Accessor[domain.Project, *domain.Project]) *BudgetAccessor {
	return &BudgetAccessor{
		budgets:    repository.NewStore[domain.Budget](domain.KindBudgets, d.uow, repository.WithClock(d.now)),
		categories: repository.NewStore[domain.BudgetCategory](domain.KindBudgetCategories, d.uow, repository.WithClock(d.now)),
		projects:   projects.store,
		uow:        d.uow,
		net:        d.net,
		locks:      d.locks,
		obs:        d.obs,
		now:        d.now,
	}
}

func (a *BudgetAccessor) call(ctx context.Context, op, projectID string, fn func(ctx context.Context) error) error {
	return observe(ctx, a.obs, a.net, a.now, CallEvent{Op: op, Kind: string(domain.KindBudgets), ID: projectID}, fn)
}

func (a *BudgetAccessor) lock(projectID string) func() {
	return a.locks.Lock(string(domain.KindBudgets) + "/" + projectID)
}

func (a *BudgetAccessor) header(ctx context.Context, projectID string) (domain.Budget, error) {
	f := domain.MustFilter(domain.KindBudgets, domain.Eq("projectId", projectID))
	found, err := a.budgets.List(ctx, f)
	if err != nil {
		return domain.Budget{}, err
	}
	if len(found) == 0 {
		return domain.Budget{}, domain.NewNotFound(domain.KindBudgets, projectID)
	}
	return found[0], nil
}

func (a *BudgetAccessor) load(ctx context.Context, projectID string) (domain.Budget, error) {
	b, err := a.header(ctx, projectID)
	if err != nil {
		return b, err
	}
	cats, err := a.categories.List(ctx, domain.MustFilter(domain.KindBudgetCategories, domain.Eq("projectId", projectID)))
	if err != nil {
		return b, err
	}
	b.Rollup(cats)
	return b, nil
}

// GetByProject returns the project's budget with categories and rolled-up
// totals, or NotFound when the project has no budget yet.
func (a *BudgetAccessor) GetByProject(ctx context.Context, projectID string) (domain.Budget, error) {
	var out domain.Budget
	err := a.call(ctx, "get", projectID, func(ctx context.Context) error {
		b, err := a.load(ctx, projectID)
		out = b
		return err
	})
	return out, err
}

// Update patches the budget header.
func (a *BudgetAccessor) Update(ctx context.Context, projectID string, patch domain.BudgetPatch) (domain.Budget, error) {
	defer a.lock(projectID)()

	var out domain.Budget
	err := a.call(ctx, "update", projectID, func(ctx context.Context) error {
		b, err := a.header(ctx, projectID)
		if err != nil {
			return err
		}
		if _, err := a.budgets.Update(ctx, b.ID, func(b *domain.Budget) error {
			patch.Apply(b)
			return nil
		}); err != nil {
			return err
		}
		out, err = a.load(ctx, projectID)
		return err
	})
	return out, err
}

// AddCategory creates a category under the project's budget. A project
// without a budget gets one sized to its budget.total, in the same
// transaction as the category.
func (a *BudgetAccessor) AddCategory(ctx context.Context, projectID string, draft domain.BudgetCategory) (domain.BudgetCategory, error) {
	draft.ProjectID = projectID
	probe := draft
	if err := probe.Normalize(); err != nil {
		return domain.BudgetCategory{}, err
	}
	defer a.lock(projectID)()

	var out domain.BudgetCategory
	err := a.call(ctx, "add_category", projectID, func(ctx context.Context) error {
		_, err := a.header(ctx, projectID)
		missing := domain.IsNotFound(err)
		if err != nil && !missing {
			return err
		}
		var total float64
		if missing {
			p, err := a.projects.Get(ctx, projectID)
			if err != nil {
				return err
			}
			total = p.Budget.Total
		}
		return a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			if missing {
				if _, err := a.budgets.CreateTx(ctx, tx, domain.Budget{ProjectID: projectID, TotalBudget: total}); err != nil {
					return err
				}
			}
			c, err := a.categories.CreateTx(ctx, tx, draft)
			out = c
			return err
		})
	})
	return out, err
}

func (a *BudgetAccessor) ownedCategory(ctx context.Context, projectID, categoryID string) error {
	c, err := a.categories.Get(ctx, categoryID)
	if err != nil {
		return err
	}
	if c.ProjectID != projectID {
		return domain.NewNotFound(domain.KindBudgetCategories, categoryID)
	}
	return nil
}

// UpdateCategory patches one category; remaining is re-derived.
func (a *BudgetAccessor) UpdateCategory(ctx context.Context, projectID, categoryID string, patch domain.BudgetCategoryPatch) (domain.BudgetCategory, error) {
	defer a.lock(projectID)()

	var out domain.BudgetCategory
	err := a.call(ctx, "update_category", projectID, func(ctx context.Context) error {
		if err := a.ownedCategory(ctx, projectID, categoryID); err != nil {
			return err
		}
		c, err := a.categories.Update(ctx, categoryID, func(c *domain.BudgetCategory) error {
			patch.Apply(c)
			return nil
		})
		out = c
		return err
	})
	return out, err
}

// DeleteCategory removes one category from the project's budget.
func (a *BudgetAccessor) DeleteCategory(ctx context.Context, projectID, categoryID string) error {
	defer a.lock(projectID)()

	return a.call(ctx, "delete_category", projectID, func(ctx context.Context) error {
		if err := a.ownedCategory(ctx, projectID, categoryID); err != nil {
			return err
		}
		return a.categories.Delete(ctx, categoryID)
	})
}
