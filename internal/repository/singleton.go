package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
)

// SectionPtr constrains P to be *T with a Normalize step.
type SectionPtr[T any] interface {
	*T
	Normalize() error
}

// Singleton stores one record of kind under a fixed id. Reads fall back to
// a default until the first write persists the record.
type Singleton[T any, P SectionPtr[T]] struct {
	kind domain.Kind
	id   string
	uow  db.UnitOfWork
	def  func() T
}

// NewSingleton creates a singleton store for kind/id.
func NewSingleton[T any, P SectionPtr[T]](kind domain.Kind, id string, uow db.UnitOfWork, def func() T) *Singleton[T, P] {
	return &Singleton[T, P]{kind: kind, id: id, uow: uow, def: def}
}

func (s *Singleton[T, P]) load(ctx context.Context, conn db.DBTX) (T, bool, error) {
	rec, err := NewSQLiteRecordRepo(conn).Get(ctx, s.kind, s.id)
	if domain.IsNotFound(err) {
		return s.def(), false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(rec.Body, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s %s: %w", s.kind, s.id, err)
	}
	return v, true, nil
}

// Get returns the stored value or the default.
func (s *Singleton[T, P]) Get(ctx context.Context) (T, error) {
	v, _, err := s.load(ctx, s.uow.Reader())
	return v, err
}

// Update applies mutate to the current value, normalizes it and writes it
// back, inserting the record on first write.
func (s *Singleton[T, P]) Update(ctx context.Context, mutate func(P) error) (T, error) {
	var out T
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		v, stored, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		p := P(&v)
		if err := mutate(p); err != nil {
			return err
		}
		if err := p.Normalize(); err != nil {
			return err
		}
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", s.kind, s.id, err)
		}
		rec := Record{Kind: s.kind, ID: s.id, Body: body}
		repo := NewSQLiteRecordRepo(tx)
		if stored {
			err = repo.Replace(ctx, rec)
		} else {
			err = repo.Insert(ctx, rec)
		}
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
