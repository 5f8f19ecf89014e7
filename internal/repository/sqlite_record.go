package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
)

// SQLiteRecordRepo implements RecordRepo over the records table.
type SQLiteRecordRepo struct {
	db db.DBTX
}

// NewSQLiteRecordRepo creates a new SQLiteRecordRepo.
func NewSQLiteRecordRepo(conn db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: conn}
}

// List returns every record matching all filter terms, ordered by the
// numeric id suffix.
func (r *SQLiteRecordRepo) List(ctx context.Context, f domain.Filter) ([]Record, error) {
	if err := requireKind(f); err != nil {
		return nil, err
	}
	where, args := whereClause(f)
	query := `SELECT id, body FROM records WHERE ` + where + `
		ORDER BY CAST(substr(id, instr(id, '-') + 1) AS INTEGER), id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", f.Kind(), err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec := Record{Kind: f.Kind()}
		var body string
		if err := rows.Scan(&rec.ID, &body); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", f.Kind(), err)
		}
		rec.Body = []byte(body)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", f.Kind(), err)
	}
	return out, nil
}

func (r *SQLiteRecordRepo) Get(ctx context.Context, kind domain.Kind, id string) (Record, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE kind = ? AND id = ?`, string(kind), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, domain.NewNotFound(kind, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("getting %s %s: %w", kind.Singular(), id, err)
	}
	return Record{Kind: kind, ID: id, Body: []byte(body)}, nil
}

func (r *SQLiteRecordRepo) Insert(ctx context.Context, rec Record) error {
	now := nowUTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.ID, string(rec.Body), now, now)
	if err != nil {
		return fmt.Errorf("inserting %s %s: %w", rec.Kind.Singular(), rec.ID, err)
	}
	return nil
}

func (r *SQLiteRecordRepo) Replace(ctx context.Context, rec Record) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE records SET body = ?, updated_at = ? WHERE kind = ? AND id = ?`,
		string(rec.Body), nowUTC(), string(rec.Kind), rec.ID)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", rec.Kind.Singular(), rec.ID, err)
	}
	n, _ := res.RowsAffected()
	return notFoundIfNone(n, rec.Kind, rec.ID)
}

func (r *SQLiteRecordRepo) Delete(ctx context.Context, kind domain.Kind, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", kind.Singular(), id, err)
	}
	n, _ := res.RowsAffected()
	return notFoundIfNone(n, kind, id)
}
