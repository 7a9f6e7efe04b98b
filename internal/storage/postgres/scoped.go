package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/access"
)

// setPrincipalSQL makes the principal visible to row-level security policies
// for the rest of the transaction.
const setPrincipalSQL = `SELECT set_config('request.jwt.claim.sub', $1, true)`

// Querier is the part of *sql.Tx repositories use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc runs inside a principal-scoped transaction.
type TxFunc func(ctx context.Context, q Querier) error

// Scoper opens transactions bound to a principal.
type Scoper struct {
	db      *sql.DB
	timeout time.Duration
}

func NewScoper(db *sql.DB, timeout time.Duration) *Scoper {
	return &Scoper{db: db, timeout: timeout}
}

// Run executes fn in a transaction whose RLS identity is p. The transaction
// commits when fn returns nil and rolls back otherwise; fn's error is
// returned unchanged.
func (s *Scoper) Run(ctx context.Context, p access.Principal, fn TxFunc) (err error) {
	if p.ID == "" {
		return errors.New("scoped transaction requires a principal")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, setPrincipalSQL, p.ID); err != nil {
		return fmt.Errorf("set principal: %w", err)
	}

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
