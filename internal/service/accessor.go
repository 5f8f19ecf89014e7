package service

import (
	"context"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/repository"
	"github.com/google/uuid"
)

// Accessor is the remote CRUD surface for one entity kind. Every call pays
// the simulated network cost; writes to the same id are serialized.
type Accessor[T any, P repository.EntityPtr[T]] struct {
	kind  domain.Kind
	store *repository.Store[T, P]
	net   *Network
	locks *keyedLocks
	obs   CallObserver
	now   func() time.Time

	// decorate fills read-time fields (e.g. client counters) on results.
	decorate func(ctx context.Context, items []T) error
}

func newAccessor[T any, P repository.EntityPtr[T]](kind domain.Kind, deps *deps) *Accessor[T, P] {
	return &Accessor[T, P]{
		kind:  kind,
		store: repository.NewStore[T, P](kind, deps.uow, repository.WithClock(deps.now)),
		net:   deps.net,
		locks: deps.locks,
		obs:   deps.obs,
		now:   deps.now,
	}
}

// Kind returns the entity kind served by a.
func (a *Accessor[T, P]) Kind() domain.Kind { return a.kind }

// call runs fn after the simulated round trip and reports the outcome.
func (a *Accessor[T, P]) call(ctx context.Context, op, id string, fields map[string]any, fn func(ctx context.Context) error) error {
	return observe(ctx, a.obs, a.net, a.now, CallEvent{Op: op, Kind: string(a.kind), ID: id, Fields: fields}, fn)
}

func observe(ctx context.Context, obs CallObserver, net *Network, now func() time.Time, ev CallEvent, fn func(ctx context.Context) error) error {
	ev.RequestID = uuid.NewString()
	ev.StartedAt = now()
	err := net.RoundTrip(ctx, ev.Kind+"."+ev.Op)
	if err == nil {
		err = fn(ctx)
	}
	ev.Duration = now().Sub(ev.StartedAt)
	ev.Success = err == nil
	ev.Err = err
	obs.ObserveCall(ctx, ev)
	return err
}

// List returns every record matching f; a zero Filter returns all.
func (a *Accessor[T, P]) List(ctx context.Context, f domain.Filter) ([]T, error) {
	var out []T
	err := a.call(ctx, "list", "", map[string]any{"filter": f.Canonical()}, func(ctx context.Context) error {
		items, err := a.store.List(ctx, f)
		if err != nil {
			return err
		}
		if a.decorate != nil {
			if err := a.decorate(ctx, items); err != nil {
				return err
			}
		}
		out = items
		return nil
	})
	return out, err
}

// GetByID returns the record with id or a NotFoundError.
func (a *Accessor[T, P]) GetByID(ctx context.Context, id string) (T, error) {
	var out T
	err := a.call(ctx, "get", id, nil, func(ctx context.Context) error {
		v, err := a.store.Get(ctx, id)
		if err != nil {
			return err
		}
		if a.decorate != nil {
			items := []T{v}
			if err := a.decorate(ctx, items); err != nil {
				return err
			}
			v = items[0]
		}
		out = v
		return nil
	})
	return out, err
}

// Create validates draft, then allocates the next id and persists it.
// Validation failures return immediately without a round trip.
func (a *Accessor[T, P]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	probe := draft
	if err := P(&probe).Normalize(); err != nil {
		return zero, err
	}
	var out T
	err := a.call(ctx, "create", "", nil, func(ctx context.Context) error {
		v, err := a.store.Create(ctx, draft)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Update merges patch into the stored record and re-derives computed fields.
func (a *Accessor[T, P]) Update(ctx context.Context, id string, patch domain.Patch[T]) (T, error) {
	return a.mutate(ctx, "update", id, func(p P) error {
		patch.Apply((*T)(p))
		return nil
	})
}

// mutate serializes a read-modify-write on id.
func (a *Accessor[T, P]) mutate(ctx context.Context, op, id string, fn func(P) error) (T, error) {
	unlock := a.locks.Lock(string(a.kind) + "/" + id)
	defer unlock()

	var out T
	err := a.call(ctx, op, id, nil, func(ctx context.Context) error {
		v, err := a.store.Update(ctx, id, fn)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Delete removes id. Deletes never cascade into records referencing it.
func (a *Accessor[T, P]) Delete(ctx context.Context, id string) error {
	unlock := a.locks.Lock(string(a.kind) + "/" + id)
	defer unlock()

	return a.call(ctx, "delete", id, nil, func(ctx context.Context) error {
		return a.store.Delete(ctx, id)
	})
}
