package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/alexanderramin/buildops/internal/repository"
	"github.com/gin-gonic/gin"
)

var errUnknownKind = errors.New("unknown resource")

// reader serves the generic read routes for one kind.
type reader struct {
	list func(ctx context.Context, f domain.Filter) (any, error)
	get  func(ctx context.Context, id string) (any, error)
}

func bind[T any, P repository.EntityPtr[T]](c *query.Client, r *query.Resource[T, P]) reader {
	return reader{
		list: func(ctx context.Context, f domain.Filter) (any, error) {
			return retrying(ctx, c, r.ListKey(f), func() ([]T, error) { return r.List(ctx, f) })
		},
		get: func(ctx context.Context, id string) (any, error) {
			return retrying(ctx, c, r.IDKey(id), func() (T, error) { return r.Get(ctx, id) })
		},
	}
}

// getter loads one record through retrying, for handlers outside the
// generic read routes.
func getter[T any, P repository.EntityPtr[T]](c *query.Client, r *query.Resource[T, P]) func(context.Context, string) (T, error) {
	return func(ctx context.Context, id string) (T, error) {
		return retrying(ctx, c, r.IDKey(id), func() (T, error) { return r.Get(ctx, id) })
	}
}

func readers(q *query.Queries) map[domain.Kind]reader {
	return map[domain.Kind]reader{
		domain.KindProjects:       bind(q.Client, q.Projects),
		domain.KindClients:        bind(q.Client, q.Clients),
		domain.KindEstimates:      bind(q.Client, q.Estimates),
		domain.KindInvoices:       bind(q.Client, q.Invoices),
		domain.KindExpenses:       bind(q.Client, q.Expenses),
		domain.KindWages:          bind(q.Client, q.Wages),
		domain.KindPayrolls:       bind(q.Client, q.Payrolls),
		domain.KindProposals:      bind(q.Client, q.Proposals),
		domain.KindPurchaseOrders: bind(q.Client, q.PurchaseOrders),
		domain.KindReports:        bind(q.Client, q.Reports),
		domain.KindEvents:         bind(q.Client, q.Events),
		domain.KindTeam:           bind(q.Client, q.Team),
		domain.KindBudgets: {
			get: func(ctx context.Context, projectID string) (any, error) {
				return retrying(ctx, q.Client, query.BudgetKey(projectID), func() (domain.Budget, error) {
					return q.Budgets.Get(ctx, projectID)
				})
			},
		},
	}
}

// retrying treats a new request for a key in the error state as an
// explicit retry.
func retrying[T any](ctx context.Context, c *query.Client, key query.Key, fetch func() (T, error)) (T, error) {
	if s, ok := c.Snapshot(key); ok && s.Status == query.StatusError {
		v, err := c.Refetch(ctx, key)
		t, _ := v.(T)
		return t, err
	}
	return fetch()
}

func (s *Server) reader(c *gin.Context) (domain.Kind, reader, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, fmt.Errorf("%w %q", errUnknownKind, c.Param("kind")))
		return "", reader{}, false
	}
	r, ok := s.readers[kind]
	if !ok {
		s.fail(c, fmt.Errorf("%w %q", errUnknownKind, kind))
		return "", reader{}, false
	}
	return kind, r, true
}

// list serves GET /api/v1/:kind. Query parameters become equality filter
// terms, e.g. ?status=In%20Progress&client.id=CLT-001.
func (s *Server) list(c *gin.Context) {
	kind, r, ok := s.reader(c)
	if !ok {
		return
	}
	if r.list == nil {
		s.fail(c, fmt.Errorf("%w: %s cannot be listed", errUnknownKind, kind))
		return
	}
	var terms []domain.Term
	for field, values := range c.Request.URL.Query() {
		terms = append(terms, domain.Eq(field, values[len(values)-1]))
	}
	f, err := domain.NewFilter(kind, terms...)
	if err != nil {
		s.fail(c, err)
		return
	}
	items, err := r.list(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// get serves GET /api/v1/:kind/:id. Budgets are addressed by project id.
func (s *Server) get(c *gin.Context) {
	_, r, ok := s.reader(c)
	if !ok {
		return
	}
	item, err := r.get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
