package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrConcurrentConflict marks a commit that lost a race with another
// booking decision. The caller may retry the whole operation once with
// fresh ledger state.
var ErrConcurrentConflict = errors.New("concurrent booking conflict, retry with fresh state")

func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", absPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func Exists(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists, query, args...)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists, err
}

// LockKey derives the advisory-lock key for one resource instance on one
// ledger day. Different resources hash to independent keys so unrelated
// bookings never serialize on each other.
func LockKey(kind string, resourceID int, day string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%s", kind, resourceID, day)
	return int64(h.Sum64())
}

// AcquireDayLock serializes check-then-commit booking decisions for one
// (resource kind, resource id, day) scope. The lock is released when the
// surrounding transaction commits or rolls back.
func AcquireDayLock(ctx context.Context, tx *sqlx.Tx, kind string, resourceID int, day string) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", LockKey(kind, resourceID, day))
	return err
}

// InTx runs fn inside a transaction, committing on success and rolling
// back on error. Conflict errors surfaced at commit time are normalized
// to ErrConcurrentConflict.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		if isConflict(err) {
			return ErrConcurrentConflict
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isConflict(err) {
			return ErrConcurrentConflict
		}
		return err
	}
	return nil
}

// InTxRetry is InTx plus a single retry on concurrent conflict, so the
// retried attempt re-reads the ledger instead of reusing a stale check.
func InTxRetry(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	err := InTx(ctx, db, fn)
	if errors.Is(err, ErrConcurrentConflict) {
		err = InTx(ctx, db, fn)
	}
	return err
}

func isConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03", // lock_not_available
		"23505", // unique_violation
		"23P01": // exclusion_violation
		return true
	}
	return false
}
