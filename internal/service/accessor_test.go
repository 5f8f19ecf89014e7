package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, opts ...Option) *API {
	t.Helper()
	uow := testutil.NewTestUoW(testutil.NewSeededDB(t))
	base := []Option{WithNetwork(NewNetwork(WithLatency(0)))}
	return NewAPI(uow, append(base, opts...)...)
}

func TestProjects_ListAll(t *testing.T) {
	api := newTestAPI(t)

	projects, err := api.Projects.List(context.Background(), domain.Filter{})
	require.NoError(t, err)
	require.Len(t, projects, 5)

	var found bool
	for _, p := range projects {
		if p.ID == "PRJ-001" {
			found = true
			assert.Equal(t, domain.ProjectInProgress, p.Status)
			assert.Equal(t, 45, p.Completion)
		}
	}
	assert.True(t, found, "PRJ-001 should be listed")
}

func TestProjects_GetByIDMissing(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.Projects.GetByID(context.Background(), "PRJ-999")
	assert.True(t, domain.IsNotFound(err))
}

func TestClients_CountersComputedOnRead(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	c, err := api.Clients.GetByID(ctx, "CLT-001")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ProjectCount)
	assert.Equal(t, 1250000.0, c.TotalSpent)

	_, err = api.Projects.Create(ctx, testutil.NewTestProject("Riverside Phase 2",
		testutil.WithClientRef("CLT-001", "Riverside Development Corp"), testutil.WithBudget(400000, 0)))
	require.NoError(t, err)

	c, err = api.Clients.GetByID(ctx, "CLT-001")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ProjectCount)
	assert.Equal(t, 1650000.0, c.TotalSpent)
}

func TestClients_CreateUpdateDeleteRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	created, err := api.Clients.Create(ctx, testutil.NewTestClient("Harbor Builders"))
	require.NoError(t, err)
	assert.Equal(t, "CLT-006", created.ID)

	updated, err := api.Clients.Update(ctx, created.ID, domain.ClientPatch{
		Phone:  domain.Ptr("(555) 999-1212"),
		Status: domain.Ptr(domain.ClientInactive),
	})
	require.NoError(t, err)
	assert.Equal(t, "(555) 999-1212", updated.Phone)
	assert.Equal(t, "Harbor Builders", updated.Name)

	got, err := api.Clients.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClientInactive, got.Status)

	require.NoError(t, api.Clients.Delete(ctx, created.ID))
	_, err = api.Clients.GetByID(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestClients_DeleteDoesNotCascade(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, api.Clients.Delete(ctx, "CLT-003"))

	p, err := api.Projects.GetByID(ctx, "PRJ-003")
	require.NoError(t, err)
	assert.Equal(t, "CLT-003", p.Client.ID, "weak reference survives the delete")
}

func TestCreate_ValidationSkipsRoundTrip(t *testing.T) {
	var trips atomic.Int32
	net := NewNetwork(WithLatency(0), WithFaultHook(func(string) error {
		trips.Add(1)
		return nil
	}))
	api := newTestAPI(t, WithNetwork(net))

	_, err := api.Clients.Create(context.Background(), domain.Client{Name: "No Email"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, trips.Load())
}

func TestUpdate_InvalidPatchRejected(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	_, err := api.Projects.Update(ctx, "PRJ-001", domain.ProjectPatch{Completion: domain.Ptr(120)})
	assert.True(t, domain.IsValidation(err))

	p, err := api.Projects.GetByID(ctx, "PRJ-001")
	require.NoError(t, err)
	assert.Equal(t, 45, p.Completion)
}

func TestNetwork_LatencyHonoursContext(t *testing.T) {
	api := newTestAPI(t, WithNetwork(NewNetwork(WithLatency(time.Hour))))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := api.Projects.List(ctx, domain.Filter{})
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNetwork_LatencyApplied(t *testing.T) {
	api := newTestAPI(t, WithNetwork(NewNetwork(WithLatency(30*time.Millisecond))))

	start := time.Now()
	_, err := api.Team.List(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestNetwork_FaultHookProducesTransient(t *testing.T) {
	offline := errors.New("offline")
	net := NewNetwork(WithLatency(0), WithFaultHook(func(op string) error {
		if op == "projects.list" {
			return offline
		}
		return nil
	}))
	api := newTestAPI(t, WithNetwork(net))

	_, err := api.Projects.List(context.Background(), domain.Filter{})
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))
	assert.ErrorIs(t, err, offline)

	_, err = api.Clients.List(context.Background(), domain.Filter{})
	assert.NoError(t, err)
}

func TestNetwork_FailureRateAlwaysFails(t *testing.T) {
	api := newTestAPI(t, WithNetwork(NewNetwork(WithLatency(0), WithFailureRate(1), WithSeed(7))))
	_, err := api.Events.List(context.Background(), domain.Filter{})
	assert.True(t, domain.IsTransient(err))
}

func TestUpdate_SameIDSerialized(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	net := NewNetwork(WithLatency(0), WithFaultHook(func(op string) error {
		if op != "projects.update" {
			return nil
		}
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}))
	api := newTestAPI(t, WithNetwork(net))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := api.Projects.Update(context.Background(), "PRJ-001", domain.ProjectPatch{Completion: domain.Ptr(40 + i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Zero(t, api.Projects.locks.size())
}

func TestObserver_LogsCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	api := newTestAPI(t, WithObserver(NewLogCallObserver(logger)))

	_, err := api.Projects.GetByID(context.Background(), "PRJ-404")
	require.Error(t, err)
	_, err = api.Projects.GetByID(context.Background(), "PRJ-001")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "accessor_call")
	assert.Contains(t, out, "op=get")
	assert.Contains(t, out, "id=PRJ-404")
	assert.Contains(t, out, "success=false")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "request_id=")
}

func TestNewLogCallObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopCallObserver{}, NewLogCallObserver(nil))
}
