package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// UnitOfWork scopes store writes. WithinTx hands the callback a DBTX backed
// by a *sql.Tx; Reader returns the plain connection for reads that need no
// transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
	Reader() DBTX
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
// Transactions are serialized: SQLite admits one writer, and a deferred
// transaction that upgrades from read to write fails with SQLITE_BUSY
// instead of waiting.
type SQLiteUnitOfWork struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) Reader() DBTX { return u.db }

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
