package query

import (
	"context"

	"github.com/alexanderramin/buildops/internal/domain"
)

func erase[T any](fn func(context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) (any, error) { return fn(ctx) }
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Fetch is the typed form of Client.Fetch.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, erase(fn))
	return as[T](v), err
}

// Read is the typed form of Client.Read.
func Read[T any](c *Client, key Key, fn func(context.Context) (T, error)) (T, Snapshot) {
	s := c.Read(key, erase(fn))
	return as[T](s.Data), s
}

// Data extracts the typed payload of a snapshot.
func Data[T any](s Snapshot) (T, bool) {
	if !s.HasData {
		var zero T
		return zero, false
	}
	t, ok := s.Data.(T)
	return t, ok
}

// Callbacks are the typed mutation callbacks.
type Callbacks[T any] struct {
	OnSuccess func(T)
	OnError   func(error)
}

// Mutate is the typed form of Client.Mutate.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), cb Callbacks[T], invalidates ...domain.Kind) (T, error) {
	opts := MutateOptions{Invalidates: invalidates, OnError: cb.OnError}
	if cb.OnSuccess != nil {
		opts.OnSuccess = func(v any) { cb.OnSuccess(as[T](v)) }
	}
	v, err := c.Mutate(ctx, erase(fn), opts)
	return as[T](v), err
}
