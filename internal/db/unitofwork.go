package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a *sql.Tx; callers create tx-scoped repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
// A transaction that fails because another writer holds the database lock is
// retried from the start, up to maxAttempts times.
type SQLiteUnitOfWork struct {
	db          *sql.DB
	maxAttempts int
	backoff     time.Duration
}

// NewSQLiteUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db, maxAttempts: 3, backoff: 20 * time.Millisecond}
}

// IsBusy reports whether err is SQLite refusing a write because the database
// is locked by another connection.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	var err error
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		err = u.runOnce(ctx, fn)
		if !IsBusy(err) || attempt == u.maxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting to retry transaction: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * u.backoff):
		}
	}
	return err
}

func (u *SQLiteUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
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
