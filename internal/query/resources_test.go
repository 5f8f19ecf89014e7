package query

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/service"
	"github.com/alexanderramin/buildops/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opLog counts simulated round trips per operation, e.g. "clients.list".
type opLog struct {
	mu    sync.Mutex
	calls map[string]int
	block map[string]chan struct{}
}

func newOpLog() *opLog {
	return &opLog{calls: map[string]int{}, block: map[string]chan struct{}{}}
}

func (o *opLog) hook(op string) error {
	o.mu.Lock()
	o.calls[op]++
	gate := o.block[op]
	o.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return nil
}

func (o *opLog) count(op string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[op]
}

func (o *opLog) hold(op string) chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	gate := make(chan struct{})
	o.block[op] = gate
	return gate
}

func newTestQueries(t *testing.T) (*Queries, *opLog) {
	t.Helper()
	ops := newOpLog()
	uow := testutil.NewTestUoW(testutil.NewSeededDB(t))
	api := service.NewAPI(uow, service.WithNetwork(service.NewNetwork(service.WithLatency(0), service.WithFaultHook(ops.hook))))
	return NewQueries(New(), api), ops
}

func TestQueries_DeleteThenListIsRefreshed(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	clients, err := q.Clients.List(ctx, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, clients, 5)

	var deleted string
	err = q.Clients.Delete(ctx, "CLT-003", Callbacks[string]{OnSuccess: func(id string) { deleted = id }})
	require.NoError(t, err)
	assert.Equal(t, "CLT-003", deleted)

	clients, err = q.Clients.List(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, ops.count("clients.list"))
	assert.Len(t, clients, 4)
	for _, c := range clients {
		assert.NotEqual(t, "CLT-003", c.ID)
	}
}

func TestQueries_ConcurrentListsShareOneCall(t *testing.T) {
	q, ops := newTestQueries(t)
	gate := ops.hold("projects.list")
	f := domain.MustFilter(domain.KindProjects, domain.Eq("status", "In Progress"))

	results := make([][]domain.Project, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ps, err := q.Projects.List(context.Background(), f)
			assert.NoError(t, err)
			results[i] = ps
		}(i)
	}
	assert.Eventually(t, func() bool {
		return promtest.ToFloat64(q.Client.metrics.joins.WithLabelValues("projects")) == 1
	}, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, ops.count("projects.list"))
	require.Len(t, results[0], 2)
	assert.True(t, &results[0][0] == &results[1][0], "both callers observe the same result")
}

func TestQueries_GetByIDCachedUntilMutation(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	first, err := q.Projects.Get(ctx, "PRJ-001")
	require.NoError(t, err)
	again, err := q.Projects.Get(ctx, "PRJ-001")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, ops.count("projects.get"))

	updated, err := q.Projects.Update(ctx, "PRJ-001", domain.ProjectPatch{Completion: domain.Ptr(50)}, Callbacks[domain.Project]{})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Completion)
	assert.Equal(t, first.Name, updated.Name)
	assert.Equal(t, first.Budget, updated.Budget)

	got, err := q.Projects.Get(ctx, "PRJ-001")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Completion)
	assert.Equal(t, 2, ops.count("projects.get"))
}

func TestQueries_GetMissingIsNotFound(t *testing.T) {
	q, _ := newTestQueries(t)
	_, err := q.Projects.Get(context.Background(), "PRJ-999")
	assert.True(t, domain.IsNotFound(err))

	s, ok := q.Client.Snapshot(q.Projects.IDKey("PRJ-999"))
	require.True(t, ok)
	assert.Equal(t, StatusError, s.Status)
}

func TestQueries_ProjectMutationRefreshesClientCounters(t *testing.T) {
	q, _ := newTestQueries(t)
	ctx := context.Background()

	c, err := q.Clients.Get(ctx, "CLT-002")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ProjectCount)

	_, err = q.Projects.Create(ctx, testutil.NewTestProject("Metro Annex",
		testutil.WithClientRef("CLT-002", "Metro Business Solutions")), Callbacks[domain.Project]{})
	require.NoError(t, err)

	c, err = q.Clients.Get(ctx, "CLT-002")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ProjectCount)
}

func TestQueries_ValidationFailureLeavesCacheAlone(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	_, err := q.Clients.List(ctx, domain.Filter{})
	require.NoError(t, err)

	var failed error
	_, err = q.Clients.Create(ctx, domain.Client{Name: "X"}, Callbacks[domain.Client]{OnError: func(err error) { failed = err }})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, err, failed)

	s, _ := q.Client.Snapshot(q.Clients.ListKey(domain.Filter{}))
	assert.False(t, s.Stale)
	assert.Zero(t, ops.count("clients.create"))
}

func TestQueries_AddCategoryVisibleThroughCache(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	before, err := q.Budgets.Get(ctx, "PRJ-001")
	require.NoError(t, err)
	require.Len(t, before.Categories, 5)

	added, err := q.Budgets.AddCategory(ctx, "PRJ-001",
		domain.BudgetCategory{Name: "Materials", Allocation: 500000, Remaining: 500000},
		Callbacks[domain.BudgetCategory]{})
	require.NoError(t, err)

	after, err := q.Budgets.Get(ctx, "PRJ-001")
	require.NoError(t, err)
	assert.Equal(t, 2, ops.count("budgets.get"))
	require.Len(t, after.Categories, 6)
	for _, c := range after.Categories {
		if c.ID == added.ID {
			assert.Equal(t, "Materials", c.Name)
			assert.Equal(t, c.Allocation, c.Remaining)
		}
	}
}

func TestQueries_WatchedListRefetchedOnMutation(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	updates := make(chan Snapshot, 16)
	_, unwatch := q.Payrolls.WatchList(domain.Filter{}, func(s Snapshot) { updates <- s })
	defer unwatch()
	_, err := q.Payrolls.List(ctx, domain.Filter{})
	require.NoError(t, err)

	p, err := q.ProcessPayroll(ctx, "PAY-003", Callbacks[domain.Payroll]{})
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollProcessing, p.Status)
	assert.Equal(t, 2, ops.count("payrolls.list"), "observed list refetched before the mutation returns")

	list, s := q.Payrolls.ReadList(domain.Filter{})
	assert.Equal(t, StatusSuccess, s.Status)
	for _, row := range list {
		if row.ID == "PAY-003" {
			assert.Equal(t, domain.PayrollProcessing, row.Status)
		}
	}
}

func TestQueries_ReportDetailCached(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	for range 2 {
		d, err := q.ReportDetail(ctx, "REP-001")
		require.NoError(t, err)
		assert.Equal(t, "Monthly Project Progress", d.Title)
	}
	assert.Equal(t, 1, ops.count("reports.detail"))
}

func TestQueries_SettingsCachedUntilUpdate(t *testing.T) {
	q, ops := newTestQueries(t)
	ctx := context.Background()

	first, err := q.Settings.System.Get(ctx)
	require.NoError(t, err)
	_, err = q.Settings.System.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ops.count("settings.get"))

	var seen domain.SystemSettings
	updated, err := q.Settings.System.Update(ctx, domain.PatchFunc[domain.SystemSettings](func(s *domain.SystemSettings) {
		s.TimeFormat = "24h"
	}), Callbacks[domain.SystemSettings]{OnSuccess: func(s domain.SystemSettings) { seen = s }})
	require.NoError(t, err)
	assert.Equal(t, "24h", updated.TimeFormat)
	assert.Equal(t, first.Currency, updated.Currency)
	assert.Equal(t, updated, seen)

	got, err := q.Settings.System.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "24h", got.TimeFormat)
	assert.Equal(t, 2, ops.count("settings.get"))

	s, _ := q.Client.Snapshot(SettingKey(domain.SectionSystem))
	assert.Equal(t, StatusSuccess, s.Status)
}
