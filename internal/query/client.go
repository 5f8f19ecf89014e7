package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long fetched data counts as fresh.
const DefaultStaleTime = 60 * time.Second

// ErrNoFetcher is returned when a key is refetched before anything
// registered how to load it.
var ErrNoFetcher = errors.New("no fetcher registered for key")

// Status is the lifecycle state of one cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher loads the value for one key.
type Fetcher func(ctx context.Context) (any, error)

// Snapshot is a consistent copy of one entry's state. Data holds the last
// successful result and survives later errors and refetches.
type Snapshot struct {
	Key       Key
	Status    Status
	Data      any
	HasData   bool
	Err       error
	UpdatedAt time.Time
	Stale     bool
	// Version increases on every change so observers can drop
	// notifications that arrive out of order.
	Version uint64
}

type entry struct {
	key       Key
	fetch     Fetcher
	status    Status
	data      any
	hasData   bool
	err       error
	updatedAt time.Time
	version   uint64

	issued   uint64 // newest flight generation handed out
	inflight uint64 // generation still awaited, 0 when none
	applied  uint64 // newest generation written into the entry
	invalid  bool

	subs map[uint64]func(Snapshot)
}

// Client is the query cache. It de-duplicates concurrent fetches per key,
// serves stale data while revalidating and invalidates by entity kind.
// All methods are safe for concurrent use.
type Client struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group
	nextSub uint64

	staleTime time.Duration
	now       func() time.Time
	metrics   *metrics
	logger    *slog.Logger
	base      context.Context
}

type options struct {
	staleTime time.Duration
	now       func() time.Time
	reg       prometheus.Registerer
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithStaleTime sets the freshness window.
func WithStaleTime(d time.Duration) Option {
	return func(o *options) { o.staleTime = d }
}

// WithClock overrides the clock used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRegisterer registers the cache metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// WithLogger logs failed fetches at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates an empty cache.
func New(opts ...Option) *Client {
	o := options{staleTime: DefaultStaleTime, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		entries:   make(map[Key]*entry),
		staleTime: o.staleTime,
		now:       o.now,
		metrics:   newMetrics(o.reg),
		logger:    o.logger,
		base:      context.Background(),
	}
}

// Fetch returns the value for key, loading it with fetch when needed.
//
// Fresh data is returned as is. Data that only outlived the freshness
// window is returned immediately while a background refetch runs. When
// there is no data yet, or the kind was invalidated, Fetch waits for a
// fetch, joining one already in flight. An entry in the error state
// returns its error (and any last-known-good data) until Refetch.
func (c *Client) Fetch(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e, err := c.entryLocked(key, fetch)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	label := string(key.Kind)

	switch {
	case e.invalid || (!e.hasData && e.status != StatusError):
		c.metrics.misses.WithLabelValues(label).Inc()
		ch, issued := c.startLocked(context.WithoutCancel(ctx), e, false)
		notify := c.notifyIf(issued, e)
		c.mu.Unlock()
		notify()
		select {
		case r := <-ch:
			return r.Val, r.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}

	case e.status == StatusError:
		data, err := e.data, e.err
		c.mu.Unlock()
		return data, err

	default:
		c.metrics.hits.WithLabelValues(label).Inc()
		issued := false
		if e.inflight == 0 && c.staleLocked(e) {
			_, issued = c.startLocked(c.base, e, false)
		}
		data := e.data
		notify := c.notifyIf(issued, e)
		c.mu.Unlock()
		notify()
		return data, nil
	}
}

// Read returns the current snapshot for key without waiting and starts a
// fetch when the entry is idle, stale or invalidated.
func (c *Client) Read(key Key, fetch Fetcher) Snapshot {
	c.mu.Lock()
	e, err := c.entryLocked(key, fetch)
	if err != nil {
		c.mu.Unlock()
		return Snapshot{Key: key, Status: StatusError, Err: err}
	}
	snap, notify := c.readLocked(e)
	c.mu.Unlock()
	notify()
	return snap
}

func (c *Client) readLocked(e *entry) (Snapshot, func()) {
	label := string(e.key.Kind)
	if e.hasData {
		c.metrics.hits.WithLabelValues(label).Inc()
	} else {
		c.metrics.misses.WithLabelValues(label).Inc()
	}
	issued := false
	if c.needsFetchLocked(e) {
		_, issued = c.startLocked(c.base, e, false)
	}
	return c.snapshotLocked(e), c.notifyIf(issued, e)
}

// Refetch forces a new fetch for key and waits for it. This is the explicit
// retry for entries in the error state.
func (c *Client) Refetch(ctx context.Context, key Key) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("refetch %s: %w", key, ErrNoFetcher)
	}
	ch, _ := c.startLocked(context.WithoutCancel(ctx), e, true)
	notify := c.notifierLocked(e)
	c.mu.Unlock()
	notify()

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns the state of key without triggering a fetch.
func (c *Client) Snapshot(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot{Key: key}, false
	}
	return c.snapshotLocked(e), true
}

// Subscribe registers fn for every later change of key and reads the entry
// as Read does. The returned func unsubscribes; a fetch already in flight
// still completes into the cache.
func (c *Client) Subscribe(key Key, fetch Fetcher, fn func(Snapshot)) (Snapshot, func()) {
	c.mu.Lock()
	e, err := c.entryLocked(key, fetch)
	if err != nil {
		c.mu.Unlock()
		return Snapshot{Key: key, Status: StatusError, Err: err}, func() {}
	}
	snap, notify := c.readLocked(e)
	c.nextSub++
	id := c.nextSub
	e.subs[id] = fn
	c.mu.Unlock()
	notify()

	var once sync.Once
	return snap, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(e.subs, id)
			c.mu.Unlock()
		})
	}
}

// Invalidate marks every entry of the given kinds stale, whatever its
// scope or parameters. Observed entries are refetched once right away; the
// rest fetch on their next access.
func (c *Client) Invalidate(kinds ...domain.Kind) {
	c.invalidate(kinds)
}

func (c *Client) invalidate(kinds []domain.Kind) []<-chan singleflight.Result {
	want := make(map[domain.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
		c.metrics.invalidations.WithLabelValues(string(k)).Inc()
	}

	var (
		waits    []<-chan singleflight.Result
		notifies []func()
	)
	c.mu.Lock()
	for _, e := range c.entries {
		if !want[e.key.Kind] {
			continue
		}
		e.invalid = true
		e.version++
		if len(e.subs) > 0 && e.fetch != nil {
			ch, _ := c.startLocked(c.base, e, true)
			waits = append(waits, ch)
		}
		notifies = append(notifies, c.notifierLocked(e))
	}
	c.mu.Unlock()

	for _, n := range notifies {
		n()
	}
	return waits
}

// MutateOptions says what a mutation affects and who hears about it.
type MutateOptions struct {
	Invalidates []domain.Kind
	OnSuccess   func(v any)
	OnError     func(err error)
}

// Mutate runs fn. On success it invalidates opts.Invalidates, waits for the
// resulting refetches of observed keys and then calls OnSuccess. On failure
// it calls OnError and leaves the cache untouched. If ctx ends first, Mutate
// stops waiting and reports ctx.Err() to OnError; the write has landed and
// the refetches finish in the background.
func (c *Client) Mutate(ctx context.Context, fn func(ctx context.Context) (any, error), opts MutateOptions) (any, error) {
	v, err := fn(ctx)
	if err != nil {
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return nil, err
	}
	for _, ch := range c.invalidate(opts.Invalidates) {
		select {
		case <-ch:
		case <-ctx.Done():
			if opts.OnError != nil {
				opts.OnError(ctx.Err())
			}
			return v, ctx.Err()
		}
	}
	if opts.OnSuccess != nil {
		opts.OnSuccess(v)
	}
	return v, nil
}

func (c *Client) entryLocked(key Key, fetch Fetcher) (*entry, error) {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, subs: make(map[uint64]func(Snapshot))}
		c.entries[key] = e
	}
	if fetch != nil {
		e.fetch = fetch
	}
	if e.fetch == nil {
		return nil, fmt.Errorf("fetch %s: %w", key, ErrNoFetcher)
	}
	return e, nil
}

func (c *Client) staleLocked(e *entry) bool {
	if e.invalid {
		return true
	}
	return e.hasData && c.now().Sub(e.updatedAt) >= c.staleTime
}

func (c *Client) needsFetchLocked(e *entry) bool {
	if e.invalid {
		return true
	}
	if e.inflight != 0 {
		return false
	}
	switch e.status {
	case StatusIdle:
		return true
	case StatusSuccess:
		return c.staleLocked(e)
	default:
		return false
	}
}

// startLocked joins the flight in progress for e or issues a new one and
// reports whether it issued. An invalidated entry never joins a flight
// issued before the invalidation.
func (c *Client) startLocked(ctx context.Context, e *entry, force bool) (<-chan singleflight.Result, bool) {
	if !force && !e.invalid && e.inflight != 0 {
		c.metrics.joins.WithLabelValues(string(e.key.Kind)).Inc()
		return c.group.DoChan(flightKey(e.key, e.inflight), c.flight(ctx, e, e.inflight, e.fetch)), false
	}
	e.issued++
	gen := e.issued
	e.inflight = gen
	e.invalid = false
	e.status = StatusFetching
	e.version++
	return c.group.DoChan(flightKey(e.key, gen), c.flight(ctx, e, gen, e.fetch)), true
}

func flightKey(k Key, gen uint64) string {
	return k.String() + "#" + strconv.FormatUint(gen, 10)
}

func (c *Client) flight(ctx context.Context, e *entry, gen uint64, fetch Fetcher) func() (any, error) {
	return func() (any, error) {
		start := time.Now()
		v, err := fetch(ctx)
		label := string(e.key.Kind)
		c.metrics.duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		c.metrics.fetches.WithLabelValues(label, resultLabel(err)).Inc()
		if err != nil {
			c.logger.Debug("query fetch failed", "key", e.key.String(), "generation", gen, "error", err)
		}
		c.settle(e, gen, v, err)
		return v, err
	}
}

// settle writes a finished flight into e unless a newer flight already did.
func (c *Client) settle(e *entry, gen uint64, v any, err error) {
	c.mu.Lock()
	if gen <= e.applied {
		c.mu.Unlock()
		return
	}
	e.applied = gen
	if err != nil {
		e.err = err
	} else {
		e.data, e.hasData, e.err = v, true, nil
		e.updatedAt = c.now()
	}
	if gen == e.inflight {
		e.inflight = 0
		if err != nil {
			e.status = StatusError
		} else {
			e.status = StatusSuccess
		}
	}
	e.version++
	notify := c.notifierLocked(e)
	c.mu.Unlock()
	notify()
}

func (c *Client) snapshotLocked(e *entry) Snapshot {
	return Snapshot{
		Key:       e.key,
		Status:    e.status,
		Data:      e.data,
		HasData:   e.hasData,
		Err:       e.err,
		UpdatedAt: e.updatedAt,
		Stale:     c.staleLocked(e),
		Version:   e.version,
	}
}

func (c *Client) notifyIf(changed bool, e *entry) func() {
	if !changed {
		return func() {}
	}
	return c.notifierLocked(e)
}

// notifierLocked captures the subscribers and snapshot of e so they can be
// called after the lock is released.
func (c *Client) notifierLocked(e *entry) func() {
	if len(e.subs) == 0 {
		return func() {}
	}
	snap := c.snapshotLocked(e)
	fns := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
