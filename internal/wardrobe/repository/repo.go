package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
	"github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

// ItemColumns is the select list scanned by ScanItem, unqualified.
const ItemColumns = `id, user_id, name, brand, category, color, size, image_url, product_url, price, currency, note, created_at, updated_at`

// QualifiedItemColumns returns ItemColumns prefixed with alias.
func QualifiedItemColumns(alias string) string {
	parts := strings.Split(ItemColumns, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}

// wardrobe items have no public flag, so reads use the owner predicate too
var cols = access.Columns{Owner: "user_id"}

type Repository struct {
	scoper *postgres.Scoper
}

func New(scoper *postgres.Scoper) *Repository {
	return &Repository{scoper: scoper}
}

// List returns p's items, most recently updated first.
func (r *Repository) List(ctx context.Context, p access.Principal, f domain.Filter) ([]domain.Item, error) {
	pred := access.ReadScope(p, cols, 1)
	where := []string{pred.SQL}
	args := append([]any{}, pred.Args...)

	if c := strings.TrimSpace(f.Category); c != "" {
		args = append(args, c)
		where = append(where, "lower(category) = lower($"+strconv.Itoa(len(args))+")")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(name ILIKE $"+n+" OR brand ILIKE $"+n+")")
	}

	q := `SELECT ` + ItemColumns + ` FROM wardrobe_items WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_at DESC`

	out := make([]domain.Item, 0, 32)
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			it, err := ScanItem(rows)
			if err != nil {
				return err
			}
			out = append(out, *it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list wardrobe items: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, p access.Principal, id string) (*domain.Item, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}

	pred := access.ReadScope(p, cols, 2)
	q := `SELECT ` + ItemColumns + ` FROM wardrobe_items WHERE id = $1 AND ` + pred.SQL

	var it *domain.Item
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		it, err = ScanItem(tx.QueryRowContext(ctx, q, append([]any{id}, pred.Args...)...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wardrobe item: %w", err)
	}
	return it, nil
}

func (r *Repository) Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Item, error) {
	const q = `
INSERT INTO wardrobe_items (id, user_id, name, brand, category, color, size, image_url, product_url, price, currency, note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + ItemColumns

	var it *domain.Item
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		it, err = ScanItem(tx.QueryRowContext(ctx, q,
			uuid.NewString(), p.ID, strings.TrimSpace(in.Name),
			in.Brand, in.Category, in.Color, in.Size,
			in.ImageURL, in.ProductURL, in.Price, upper(in.Currency), in.Note,
		))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create wardrobe item: %w", err)
	}
	return it, nil
}

// Update applies the present fields of in to an item owned by p.
func (r *Repository) Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Item, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}

	pred := access.WriteScope(p, cols, 12)
	q := `
UPDATE wardrobe_items
SET name = COALESCE($2, name),
    brand = COALESCE($3, brand),
    category = COALESCE($4, category),
    color = COALESCE($5, color),
    size = COALESCE($6, size),
    image_url = COALESCE($7, image_url),
    product_url = COALESCE($8, product_url),
    price = COALESCE($9, price),
    currency = COALESCE($10, currency),
    note = COALESCE($11, note),
    updated_at = GREATEST(now(), updated_at)
WHERE id = $1 AND ` + pred.SQL + `
RETURNING ` + ItemColumns

	var name *string
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		name = &trimmed
	}

	var it *domain.Item
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		args := append([]any{id, name,
			in.Brand, in.Category, in.Color, in.Size,
			in.ImageURL, in.ProductURL, in.Price, upper(in.Currency), in.Note,
		}, pred.Args...)
		it, err = ScanItem(tx.QueryRowContext(ctx, q, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update wardrobe item: %w", err)
	}
	return it, nil
}

func (r *Repository) Delete(ctx context.Context, p access.Principal, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}

	pred := access.WriteScope(p, cols, 2)
	q := `DELETE FROM wardrobe_items WHERE id = $1 AND ` + pred.SQL

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
		return fmt.Errorf("delete wardrobe item: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type RowScanner interface {
	Scan(dest ...any) error
}

// ScanItem scans a row selected with ItemColumns, followed by any extra
// destinations.
func ScanItem(row RowScanner, extra ...any) (*domain.Item, error) {
	var it domain.Item
	dest := append([]any{
		&it.ID, &it.UserID, &it.Name, &it.Brand, &it.Category, &it.Color, &it.Size,
		&it.ImageURL, &it.ProductURL, &it.Price, &it.Currency, &it.Note,
		&it.CreatedAt, &it.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &it, nil
}

func upper(s *string) *string {
	if s == nil {
		return nil
	}
	u := strings.ToUpper(strings.TrimSpace(*s))
	return &u
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
