package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
)

// EntityPtr constrains P to be *T implementing domain.Entity.
type EntityPtr[T any] interface {
	*T
	domain.Entity
}

// Store is the typed view of one entity kind. Writes run inside a unit of
// work so id allocation and the insert commit together; Normalize runs
// before every write, so derived fields are always consistent at rest.
type Store[T any, P EntityPtr[T]] struct {
	kind domain.Kind
	uow  db.UnitOfWork
	now  func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	now func() time.Time
}

// WithClock overrides the clock used for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) { c.now = now }
}

// NewStore creates a typed store for kind.
func NewStore[T any, P EntityPtr[T]](kind domain.Kind, uow db.UnitOfWork, opts ...StoreOption) *Store[T, P] {
	cfg := storeConfig{now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}
	return &Store[T, P]{kind: kind, uow: uow, now: cfg.now}
}

// Kind returns the entity kind this store serves.
func (s *Store[T, P]) Kind() domain.Kind { return s.kind }

func (s *Store[T, P]) decode(rec Record) (T, error) {
	var v T
	if err := json.Unmarshal(rec.Body, &v); err != nil {
		return v, fmt.Errorf("decoding %s %s: %w", s.kind.Singular(), rec.ID, err)
	}
	P(&v).SetEntityID(rec.ID)
	return v, nil
}

func (s *Store[T, P]) encode(v P) (Record, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("encoding %s %s: %w", s.kind.Singular(), v.EntityID(), err)
	}
	return Record{Kind: s.kind, ID: v.EntityID(), Body: body}, nil
}

// List returns every entity matching f. A zero filter matches all.
func (s *Store[T, P]) List(ctx context.Context, f domain.Filter) ([]T, error) {
	if f.Kind() == "" {
		f = domain.MustFilter(s.kind)
	}
	if f.Kind() != s.kind {
		return nil, domain.Invalid("filter", "built for %s, used on %s", f.Kind(), s.kind)
	}
	recs, err := NewSQLiteRecordRepo(s.uow.Reader()).List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := s.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get returns the entity with id, or a NotFoundError.
func (s *Store[T, P]) Get(ctx context.Context, id string) (T, error) {
	rec, err := NewSQLiteRecordRepo(s.uow.Reader()).Get(ctx, s.kind, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.decode(rec)
}

// Create normalizes draft, allocates the next id and persists it. Any id on
// the draft is ignored.
func (s *Store[T, P]) Create(ctx context.Context, draft T) (T, error) {
	var out T
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		v, err := s.CreateTx(ctx, tx, draft)
		out = v
		return err
	})
	return out, err
}

// CreateTx is Create inside a transaction the caller already holds, so
// several writes can commit or roll back together.
func (s *Store[T, P]) CreateTx(ctx context.Context, tx db.DBTX, draft T) (T, error) {
	var zero T
	v := draft
	p := P(&v)
	if st, ok := any(p).(domain.Stamped); ok {
		st.Stamp(s.now(), true)
	}
	if err := p.Normalize(); err != nil {
		return zero, err
	}
	seq, err := NewSQLiteSequenceRepo(tx).NextSeq(ctx, s.kind)
	if err != nil {
		return zero, err
	}
	p.SetEntityID(s.kind.FormatID(seq))
	rec, err := s.encode(p)
	if err != nil {
		return zero, err
	}
	if err := NewSQLiteRecordRepo(tx).Insert(ctx, rec); err != nil {
		return zero, err
	}
	return v, nil
}

// Update loads id, applies mutate, re-normalizes and persists the result.
// mutate may return an error to abort without writing.
func (s *Store[T, P]) Update(ctx context.Context, id string, mutate func(P) error) (T, error) {
	var out T
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteRecordRepo(tx)
		rec, err := repo.Get(ctx, s.kind, id)
		if err != nil {
			return err
		}
		v, err := s.decode(rec)
		if err != nil {
			return err
		}
		p := P(&v)
		if err := mutate(p); err != nil {
			return err
		}
		p.SetEntityID(id)
		if st, ok := any(p).(domain.Stamped); ok {
			st.Stamp(s.now(), false)
		}
		if err := p.Normalize(); err != nil {
			return err
		}
		rec, err = s.encode(p)
		if err != nil {
			return err
		}
		if err := repo.Replace(ctx, rec); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Delete removes id, or returns a NotFoundError.
func (s *Store[T, P]) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteRecordRepo(tx).Delete(ctx, s.kind, id)
	})
}
