package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs a callback inside one transaction. Every schedule write
// (placement, renumber, import, daily recompute) goes through it so a failed
// step leaves no partial rows.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork opens database/sql transactions on the sitebook database.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise. A panic in
// fn rolls back and is re-raised.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	finished = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ProjectWriter serializes ordering writes per project: the project lock is
// taken before the transaction begins and released after it ends.
type ProjectWriter struct {
	uow   UnitOfWork
	locks *ProjectLocks
}

// NewProjectWriter wraps uow with per-project locking. A nil locks table gets
// a fresh one.
func NewProjectWriter(uow UnitOfWork, locks *ProjectLocks) *ProjectWriter {
	if locks == nil {
		locks = NewProjectLocks()
	}
	return &ProjectWriter{uow: uow, locks: locks}
}

// WithinProjectTx runs fn in a transaction while holding projectID's lock.
func (w *ProjectWriter) WithinProjectTx(ctx context.Context, projectID string, fn func(ctx context.Context, tx DBTX) error) error {
	unlock := w.locks.Lock(projectID)
	defer unlock()
	return w.uow.WithinTx(ctx, fn)
}
