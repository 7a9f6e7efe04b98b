package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
	"github.com/reoutfit/reoutfit-backend/internal/threads/domain"
)

const threadColumns = `thread_id, user_id, name, is_public, created_at, updated_at`

var cols = access.Columns{Owner: "user_id", Public: "is_public"}

// Repository persists threads. Every call runs in a transaction scoped to
// the calling principal.
type Repository struct {
	scoper *postgres.Scoper
}

func New(scoper *postgres.Scoper) *Repository {
	return &Repository{scoper: scoper}
}

// List returns the threads selected by scope, most recently updated first.
func (r *Repository) List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Thread, error) {
	pred := access.ListScope(p, cols, scope, 1)
	q := `SELECT ` + threadColumns + ` FROM threads WHERE ` + pred.SQL + ` ORDER BY updated_at DESC`

	out := make([]domain.Thread, 0, 16)
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		rows, err := tx.QueryContext(ctx, q, pred.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanThread(rows)
			if err != nil {
				return err
			}
			out = append(out, *t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return out, nil
}

// Get returns a thread visible to p.
func (r *Repository) Get(ctx context.Context, p access.Principal, id string) (*domain.Thread, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}

	// Ids are unique per owner, so a public thread of another user may share
	// the id of one of p's own; p's own wins.
	pred := access.ReadScope(p, cols, 2)
	q := `SELECT ` + threadColumns + ` FROM threads WHERE thread_id = $1 AND ` + pred.SQL +
		` ORDER BY (user_id = $2) DESC, created_at LIMIT 1`

	var t *domain.Thread
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		t, err = scanThread(tx.QueryRowContext(ctx, q, append([]any{id}, pred.Args...)...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	return t, nil
}

// Create inserts a thread owned by p. A client-chosen id only collides with
// p's own threads.
func (r *Repository) Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Thread, error) {
	id := uuid.NewString()
	if in.ThreadID != nil {
		id = *in.ThreadID
	}
	name := ""
	if in.Name != nil {
		name = *in.Name
	}
	public := in.IsPublic != nil && *in.IsPublic

	const q = `
INSERT INTO threads (thread_id, user_id, name, is_public)
VALUES ($1, $2, $3, $4)
RETURNING ` + threadColumns

	var t *domain.Thread
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		t, err = scanThread(tx.QueryRowContext(ctx, q, id, p.ID, name, public))
		return err
	})
	if postgres.IsUniqueViolation(err) {
		return nil, domain.ErrExists
	}
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return t, nil
}

// Update applies the present fields of in to a thread owned by p.
func (r *Repository) Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Thread, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}

	pred := access.WriteScope(p, cols, 4)
	q := `
UPDATE threads
SET name = COALESCE($2, name),
    is_public = COALESCE($3, is_public),
    updated_at = GREATEST(now(), updated_at)
WHERE thread_id = $1 AND ` + pred.SQL + `
RETURNING ` + threadColumns

	var t *domain.Thread
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		args := append([]any{id, in.Name, in.IsPublic}, pred.Args...)
		t, err = scanThread(tx.QueryRowContext(ctx, q, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update thread: %w", err)
	}
	return t, nil
}

// Delete removes a thread owned by p.
func (r *Repository) Delete(ctx context.Context, p access.Principal, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}

	pred := access.WriteScope(p, cols, 2)
	q := `DELETE FROM threads WHERE thread_id = $1 AND ` + pred.SQL

	var affected int64
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		res, err := tx.ExecContext(ctx, q, append([]any{id}, pred.Args...)...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (*domain.Thread, error) {
	var t domain.Thread
	if err := row.Scan(&t.ThreadID, &t.UserID, &t.Name, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
