package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
)

// SQLiteSequenceRepo allocates per-kind id suffixes atomically using the
// id_sequences table.
type SQLiteSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteSequenceRepo creates a new SQLiteSequenceRepo.
func NewSQLiteSequenceRepo(conn db.DBTX) *SQLiteSequenceRepo {
	return &SQLiteSequenceRepo{db: conn}
}

// NextSeq returns the next suffix for kind: one past the highest suffix
// ever stored, so ids of deleted records are not reused.
func (r *SQLiteSequenceRepo) NextSeq(ctx context.Context, kind domain.Kind) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO id_sequences (kind, prefix, next_seq)
		SELECT ?, ?, COALESCE(MAX(CAST(substr(id, length(?) + 2) AS INTEGER)), 0) + 1
		FROM records WHERE kind = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, string(kind), kind.Prefix(), kind.Prefix(), string(kind)); err != nil {
		return 0, fmt.Errorf("seeding %s sequence: %w", kind, err)
	}

	var next int
	allocQuery := `UPDATE id_sequences
		SET next_seq = next_seq + 1
		WHERE kind = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, string(kind)).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next %s id: %w", kind.Singular(), err)
	}
	return next, nil
}
