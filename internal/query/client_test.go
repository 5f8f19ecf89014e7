package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// counting returns a fetcher yielding "v1", "v2", ... and its call counter.
func counting() (Fetcher, *atomic.Int32) {
	var n atomic.Int32
	return func(context.Context) (any, error) {
		return fmt.Sprintf("v%d", n.Add(1)), nil
	}, &n
}

var projectsKey = ListKey(domain.KindProjects, domain.Filter{})

func TestListKey_CanonicalAcrossTermOrder(t *testing.T) {
	a := domain.MustFilter(domain.KindProjects, domain.Eq("status", "In Progress"), domain.Eq("client.id", "CLT-001"))
	b := domain.MustFilter(domain.KindProjects, domain.Eq("client.id", "CLT-001"), domain.Eq("status", "In Progress"))

	assert.Equal(t, ListKey(domain.KindProjects, a), ListKey(domain.KindProjects, b))
	assert.Equal(t, "projects/list?client.id=CLT-001&status=In Progress", ListKey(domain.KindProjects, a).String())
	assert.Equal(t, "clients/id?CLT-003", IDKey(domain.KindClients, "CLT-003").String())
}

func TestFetch_DeduplicatesConcurrentCallers(t *testing.T) {
	c := New()
	release := make(chan struct{})
	var calls atomic.Int32
	type payload struct{ n int32 }
	fetch := func(context.Context) (any, error) {
		n := calls.Add(1)
		<-release
		return &payload{n: n}, nil
	}

	results := make([]any, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), projectsKey, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	assert.Eventually(t, func() bool {
		return promtest.ToFloat64(c.metrics.joins.WithLabelValues("projects")) == 1
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Same(t, results[0], results[1])
}

func TestFetch_FreshDataServedFromCache(t *testing.T) {
	c := New()
	fetch, calls := counting()

	for range 3 {
		v, err := c.Fetch(context.Background(), projectsKey, fetch)
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 2.0, promtest.ToFloat64(c.metrics.hits.WithLabelValues("projects")))
}

func TestFetch_StaleWhileRevalidate(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now), WithStaleTime(time.Minute))
	fetch, calls := counting()
	ctx := context.Background()

	_, err := c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	v, err := c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Second)
	v, err = c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v, "stale data is returned without waiting")

	assert.Eventually(t, func() bool {
		s, _ := c.Snapshot(projectsKey)
		return s.Status == StatusSuccess && s.Data == "v2"
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRead_FirstReadStartsFetch(t *testing.T) {
	c := New()
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		<-release
		return "ready", nil
	}

	s := c.Read(projectsKey, fetch)
	assert.Equal(t, StatusFetching, s.Status)
	assert.False(t, s.HasData)

	close(release)
	assert.Eventually(t, func() bool {
		s := c.Read(projectsKey, fetch)
		return s.Status == StatusSuccess && s.Data == "ready"
	}, time.Second, time.Millisecond)
}

func TestInvalidate_EveryKeyOfKindRegardlessOfFilter(t *testing.T) {
	c := New()
	ctx := context.Background()
	inProgress := ListKey(domain.KindProjects, domain.MustFilter(domain.KindProjects, domain.Eq("status", "In Progress")))
	byClient := ListKey(domain.KindProjects, domain.MustFilter(domain.KindProjects, domain.Eq("client.id", "CLT-001")))
	single := IDKey(domain.KindProjects, "PRJ-001")
	clients := ListKey(domain.KindClients, domain.Filter{})

	fetchers := map[Key]*atomic.Int32{}
	for _, k := range []Key{inProgress, byClient, single, clients} {
		fetch, calls := counting()
		fetchers[k] = calls
		_, err := c.Fetch(ctx, k, fetch)
		require.NoError(t, err)
		s, _ := c.Snapshot(k)
		assert.False(t, s.Stale)
	}

	c.Invalidate(domain.KindProjects)

	for _, k := range []Key{inProgress, byClient, single} {
		s, _ := c.Snapshot(k)
		assert.True(t, s.Stale, k.String())
		v, err := c.Fetch(ctx, k, nil)
		require.NoError(t, err)
		assert.Equal(t, "v2", v, k.String())
		assert.Equal(t, int32(2), fetchers[k].Load(), k.String())
	}
	v, err := c.Fetch(ctx, clients, nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), fetchers[clients].Load())
}

func TestFetch_ErrorKeepsLastKnownGoodData(t *testing.T) {
	c := New()
	ctx := context.Background()
	boom := &domain.TransientError{Op: "projects.list"}
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		if calls.Add(1) == 2 {
			return nil, boom
		}
		return fmt.Sprintf("v%d", calls.Load()), nil
	}

	_, err := c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)

	c.Invalidate(domain.KindProjects)
	_, err = c.Fetch(ctx, projectsKey, fetch)
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))

	s, _ := c.Snapshot(projectsKey)
	assert.Equal(t, StatusError, s.Status)
	assert.True(t, s.HasData)
	assert.Equal(t, "v1", s.Data)

	v, err := c.Fetch(ctx, projectsKey, fetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(2), calls.Load(), "errors are not retried automatically")

	v, err = c.Refetch(ctx, projectsKey)
	require.NoError(t, err)
	assert.Equal(t, "v3", v)
	s, _ = c.Snapshot(projectsKey)
	assert.Equal(t, StatusSuccess, s.Status)
	assert.NoError(t, s.Err)
}

func TestFetch_FirstFetchErrorHasNoData(t *testing.T) {
	c := New()
	_, err := c.Fetch(context.Background(), projectsKey, func(context.Context) (any, error) {
		return nil, domain.NewNotFound(domain.KindProjects, "PRJ-404")
	})
	assert.True(t, domain.IsNotFound(err))

	s, _ := c.Snapshot(projectsKey)
	assert.Equal(t, StatusError, s.Status)
	assert.False(t, s.HasData)
}

func TestSettle_OlderFlightNeverOverwritesNewer(t *testing.T) {
	c := New()
	ctx := context.Background()
	gates := []chan struct{}{make(chan struct{}), make(chan struct{})}
	started := make(chan int32, 2)
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		n := calls.Add(1)
		started <- n
		<-gates[n-1]
		return fmt.Sprintf("flight-%d", n), nil
	}

	first := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(ctx, projectsKey, fetch)
		first <- v
	}()
	require.Equal(t, int32(1), <-started)

	second := make(chan any, 1)
	go func() {
		v, _ := c.Refetch(ctx, projectsKey)
		second <- v
	}()
	require.Equal(t, int32(2), <-started)

	close(gates[1])
	assert.Equal(t, "flight-2", <-second)
	close(gates[0])
	assert.Equal(t, "flight-1", <-first)

	s, _ := c.Snapshot(projectsKey)
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, "flight-2", s.Data)
}

func TestFetch_InvalidationDuringFlightIssuesNewFetch(t *testing.T) {
	c := New()
	ctx := context.Background()
	gate := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		n := calls.Add(1)
		if n == 1 {
			<-gate
		}
		return fmt.Sprintf("v%d", n), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Fetch(ctx, projectsKey, fetch)
	}()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	c.Invalidate(domain.KindProjects)
	v, err := c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", v, "a flight issued before the mutation is not joined")

	close(gate)
	<-done
	s, _ := c.Snapshot(projectsKey)
	assert.Equal(t, "v2", s.Data)
}

func TestFetch_CallerCancelDoesNotAbortFlight(t *testing.T) {
	c := New()
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		select {
		case <-release:
			return "done", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, projectsKey, fetch)
		errc <- err
	}()
	assert.Eventually(t, func() bool {
		s, _ := c.Snapshot(projectsKey)
		return s.Status == StatusFetching
	}, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	close(release)

	assert.Eventually(t, func() bool {
		s, _ := c.Snapshot(projectsKey)
		return s.Status == StatusSuccess && s.Data == "done"
	}, time.Second, time.Millisecond)
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	c := New()
	fetch, _ := counting()

	var mu sync.Mutex
	var seen []Status
	initial, unsubscribe := c.Subscribe(projectsKey, fetch, func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})
	assert.Equal(t, StatusFetching, initial.Status)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == StatusSuccess
	}, time.Second, time.Millisecond)

	unsubscribe()
	unsubscribe()
	c.Invalidate(domain.KindProjects)

	mu.Lock()
	assert.Len(t, seen, 1)
	mu.Unlock()
}

func TestSubscribe_UnsubscribedFlightStillCompletes(t *testing.T) {
	c := New()
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		<-release
		return "kept", nil
	}

	_, unsubscribe := c.Subscribe(projectsKey, fetch, func(Snapshot) {
		t.Error("unsubscribed observer must not be called")
	})
	unsubscribe()
	close(release)

	assert.Eventually(t, func() bool {
		s, _ := c.Snapshot(projectsKey)
		return s.Status == StatusSuccess && s.Data == "kept"
	}, time.Second, time.Millisecond)
}

func TestMutate_SuccessRefetchesObservedKeysBeforeCallback(t *testing.T) {
	c := New()
	ctx := context.Background()
	fetch, calls := counting()
	_, unsubscribe := c.Subscribe(projectsKey, fetch, func(Snapshot) {})
	defer unsubscribe()
	_, err := c.Fetch(ctx, projectsKey, nil)
	require.NoError(t, err)

	var callsAtSuccess int32
	v, err := c.Mutate(ctx, func(context.Context) (any, error) {
		return "PRJ-006", nil
	}, MutateOptions{
		Invalidates: []domain.Kind{domain.KindProjects},
		OnSuccess:   func(any) { callsAtSuccess = calls.Load() },
		OnError:     func(error) { t.Error("unexpected error callback") },
	})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-006", v)
	assert.Equal(t, int32(2), callsAtSuccess)

	s, _ := c.Snapshot(projectsKey)
	assert.Equal(t, "v2", s.Data)
	assert.False(t, s.Stale)
}

func TestMutate_FailureInvalidatesNothing(t *testing.T) {
	c := New()
	ctx := context.Background()
	fetch, calls := counting()
	_, err := c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)

	rejected := domain.Invalid("name", "is required")
	var gotErr error
	_, err = c.Mutate(ctx, func(context.Context) (any, error) {
		return nil, rejected
	}, MutateOptions{
		Invalidates: []domain.Kind{domain.KindProjects},
		OnSuccess:   func(any) { t.Error("unexpected success callback") },
		OnError:     func(err error) { gotErr = err },
	})
	assert.ErrorIs(t, err, rejected)
	assert.ErrorIs(t, gotErr, rejected)

	s, _ := c.Snapshot(projectsKey)
	assert.False(t, s.Stale)
	_, err = c.Fetch(ctx, projectsKey, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMutate_CancelWhileRefetchHangs(t *testing.T) {
	c := New()
	release := make(chan struct{})
	defer close(release)
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		if calls.Add(1) > 1 {
			<-release
		}
		return "v", nil
	}
	_, unsubscribe := c.Subscribe(projectsKey, fetch, func(Snapshot) {})
	defer unsubscribe()
	_, err := c.Fetch(context.Background(), projectsKey, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var gotErr error
	done := make(chan struct{})
	var v any
	go func() {
		defer close(done)
		v, err = c.Mutate(ctx, func(context.Context) (any, error) {
			return "PRJ-006", nil
		}, MutateOptions{
			Invalidates: []domain.Kind{domain.KindProjects},
			OnSuccess:   func(any) { t.Error("unexpected success callback") },
			OnError:     func(err error) { gotErr = err },
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Mutate kept waiting after cancel")
	}
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.Equal(t, "PRJ-006", v)
}

func TestRefetch_UnknownKey(t *testing.T) {
	_, err := New().Refetch(context.Background(), projectsKey)
	assert.ErrorIs(t, err, ErrNoFetcher)
}

func TestFetch_WithoutFetcher(t *testing.T) {
	_, err := New().Fetch(context.Background(), projectsKey, nil)
	assert.True(t, errors.Is(err, ErrNoFetcher))
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(WithRegisterer(reg))
	b := New(WithRegisterer(reg))
	fetch, _ := counting()

	_, err := a.Fetch(context.Background(), projectsKey, fetch)
	require.NoError(t, err)
	_, err = b.Fetch(context.Background(), projectsKey, fetch)
	require.NoError(t, err)

	assert.Equal(t, 2.0, promtest.ToFloat64(a.metrics.fetches.WithLabelValues("projects", "success")))
	n, err := promtest.GatherAndCount(reg, "buildops_query_fetches_total", "buildops_query_cache_misses_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
