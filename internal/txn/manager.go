// Package txn provides the single-transaction-per-operation primitive
// that every public mutation is built on: open exactly one transaction,
// perform all reads/writes, and either commit or roll back. Adapted from the
// GORM-based TransactionManager idiom to plain database/sql.
//
// Every call through WithTransaction is also the resilience boundary
// for deadlocks and serialization failures: a transaction aborted by
// Postgres with SQLSTATE 40001 (serialization_failure) or 40P01
// (deadlock_detected) is classified as transient and retried, with a
// fresh transaction per attempt, up to the configured retry count, all
// attempts together bounded by one per-operation deadline.
package txn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/internal/retry"
)

const (
	deadlockDetected    = "40P01"
	serializationFailed = "40001"
)

// Manager opens and commits/rolls back *sql.Tx handles for the engine's
// components.
type Manager struct {
	db         *sql.DB
	maxRetries int
	opTimeout  time.Duration
}

// NewManager creates a new transaction manager. maxRetries bounds the
// number of retries made after the first attempt for a transaction
// aborted by a transient Postgres error; opTimeout, if positive, is the
// deadline applied to the whole WithTransaction call, across every
// attempt.
func NewManager(db *sql.DB, maxRetries int, opTimeout time.Duration) *Manager {
	return &Manager{db: db, maxRetries: maxRetries, opTimeout: opTimeout}
}

// DB returns the underlying *sql.DB for read-only queries that don't
// need transactional scope (e.g. availability checks).
func (m *Manager) DB() *sql.DB {
	return m.db
}

// WithTransaction executes fn within a single transaction. A panic or
// returned error rolls back; a nil return commits. No partial success
// is ever observable. The whole call, across every retry attempt, is
// bounded by the configured per-operation deadline; a deadlock or
// serialization failure classified by classifyTransient is retried
// within that budget, opening a fresh transaction each attempt.
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if m.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opTimeout)
		defer cancel()
	}
	return retry.Do(ctx, m.maxRetries+1, func() error {
		return m.runOnce(ctx, fn)
	})
}

func (m *Manager) runOnce(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyTransient(fmt.Errorf("error starting transaction: %w", err))
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		tx.Rollback()
		return classifyTransient(err)
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		return classifyTransient(fmt.Errorf("error committing transaction: %w", err))
	}

	return nil
}

// classifyTransient marks err as domain.ErrTransient when it is (or
// wraps) a pq.Error carrying a deadlock or serialization-failure
// SQLSTATE, so retry.Do's domain.IsTransient predicate fires on it.
// Any other error is returned unchanged.
func classifyTransient(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case deadlockDetected, serializationFailed:
			return fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
	}
	return err
}
