package repository

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/buildops/internal/domain"
)

// Record is one stored entity body.
type Record struct {
	Kind domain.Kind
	ID   string
	Body json.RawMessage
}

// RecordRepo stores entity bodies as JSON, addressed by kind and id.
type RecordRepo interface {
	List(ctx context.Context, f domain.Filter) ([]Record, error)
	Get(ctx context.Context, kind domain.Kind, id string) (Record, error)
	Insert(ctx context.Context, r Record) error
	Replace(ctx context.Context, r Record) error
	Delete(ctx context.Context, kind domain.Kind, id string) error
}

// SequenceRepo hands out numeric id suffixes per kind.
type SequenceRepo interface {
	NextSeq(ctx context.Context, kind domain.Kind) (int, error)
}
