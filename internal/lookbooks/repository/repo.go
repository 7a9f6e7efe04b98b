package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/lookbooks/domain"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
	wardroberepo "github.com/reoutfit/reoutfit-backend/internal/wardrobe/repository"
)

const (
	lookbookColumns = `id, user_id, name, description, occasion, cover_image_url, is_public, created_at, updated_at`
	linkColumns     = `lookbook_id, wardrobe_item_id, user_id, category, role, note, position, created_at`

	touchLookbookSQL = `UPDATE lookbooks SET updated_at = GREATEST(now(), updated_at) WHERE id = $1 AND user_id = $2`
)

var (
	cols     = access.Columns{Owner: "user_id", Public: "is_public"}
	linkCols = access.Columns{Owner: "user_id"}
)

type Repository struct {
	scoper *postgres.Scoper
}

func New(scoper *postgres.Scoper) *Repository {
	return &Repository{scoper: scoper}
}

func (r *Repository) List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Lookbook, error) {
	pred := access.ListScope(p, cols, scope, 1)
	q := `SELECT ` + lookbookColumns + ` FROM lookbooks WHERE ` + pred.SQL + ` ORDER BY updated_at DESC`

	out := make([]domain.Lookbook, 0, 16)
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		rows, err := tx.QueryContext(ctx, q, pred.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			lb, err := scanLookbook(rows)
			if err != nil {
				return err
			}
			out = append(out, *lb)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list lookbooks: %w", err)
	}
	return out, nil
}

// Get returns a lookbook visible to p together with its products, ordered by
// link position and then link creation time.
func (r *Repository) Get(ctx context.Context, p access.Principal, id string) (*domain.Detail, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}

	pred := access.ReadScope(p, cols, 2)
	lookbookQ := `SELECT ` + lookbookColumns + ` FROM lookbooks WHERE id = $1 AND ` + pred.SQL

	productsQ := `
SELECT ` + wardroberepo.QualifiedItemColumns("w") + `, li.category, li.role, li.note, li.position, li.created_at
FROM lookbook_items li
JOIN wardrobe_items w ON w.id = li.wardrobe_item_id
WHERE li.lookbook_id = $1
ORDER BY li.position ASC, li.created_at ASC`

	detail := &domain.Detail{Products: []domain.Product{}}
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		lb, err := scanLookbook(tx.QueryRowContext(ctx, lookbookQ, append([]any{id}, pred.Args...)...))
		if err != nil {
			return err
		}
		detail.Lookbook = lb

		rows, err := tx.QueryContext(ctx, productsQ, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			link := domain.Link{LookbookID: id}
			item, err := wardroberepo.ScanItem(rows, &link.Category, &link.Role, &link.Note, &link.Position, &link.CreatedAt)
			if err != nil {
				return err
			}
			link.WardrobeItemID = item.ID
			link.UserID = item.UserID
			detail.Products = append(detail.Products, domain.Flatten(*item, link))
		}
		return rows.Err()
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lookbook: %w", err)
	}
	return detail, nil
}

func (r *Repository) Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Lookbook, error) {
	const q = `
INSERT INTO lookbooks (id, user_id, name, description, occasion, cover_image_url, is_public)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + lookbookColumns

	public := in.IsPublic != nil && *in.IsPublic

	var lb *domain.Lookbook
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		lb, err = scanLookbook(tx.QueryRowContext(ctx, q,
			uuid.NewString(), p.ID, in.Name, in.Description, in.Occasion, in.CoverImageURL, public))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create lookbook: %w", err)
	}
	return lb, nil
}

func (r *Repository) Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Lookbook, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}

	pred := access.WriteScope(p, cols, 7)
	q := `
UPDATE lookbooks
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    occasion = COALESCE($4, occasion),
    cover_image_url = COALESCE($5, cover_image_url),
    is_public = COALESCE($6, is_public),
    updated_at = GREATEST(now(), updated_at)
WHERE id = $1 AND ` + pred.SQL + `
RETURNING ` + lookbookColumns

	var lb *domain.Lookbook
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		args := append([]any{id, in.Name, in.Description, in.Occasion, in.CoverImageURL, in.IsPublic}, pred.Args...)
		lb, err = scanLookbook(tx.QueryRowContext(ctx, q, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lookbook: %w", err)
	}
	return lb, nil
}

// Delete removes a lookbook owned by p; its links go with it.
func (r *Repository) Delete(ctx context.Context, p access.Principal, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}

	pred := access.WriteScope(p, cols, 2)
	q := `DELETE FROM lookbooks WHERE id = $1 AND ` + pred.SQL

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
		return fmt.Errorf("delete lookbook: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddItem links a wardrobe item into a lookbook. Both must be owned by p;
// ownership is checked inside the same transaction as the insert. Without an
// explicit position the item is appended.
func (r *Repository) AddItem(ctx context.Context, p access.Principal, lookbookID string, in domain.LinkInput) (*domain.Link, error) {
	if !isUUID(lookbookID) {
		return nil, domain.ErrNotFound
	}
	if !isUUID(in.WardrobeItemID) {
		return nil, domain.ErrItemNotFound
	}

	const insertQ = `
INSERT INTO lookbook_items (lookbook_id, wardrobe_item_id, user_id, category, role, note, position)
VALUES ($1, $2, $3, $4, $5, $6,
        COALESCE($7, (SELECT COALESCE(MAX(position) + 1, 0) FROM lookbook_items WHERE lookbook_id = $1)))
RETURNING ` + linkColumns

	var link *domain.Link
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		if err := r.requireOwned(ctx, tx, "lookbooks", lookbookID, p, domain.ErrNotFound); err != nil {
			return err
		}
		if err := r.requireOwned(ctx, tx, "wardrobe_items", in.WardrobeItemID, p, domain.ErrItemNotFound); err != nil {
			return err
		}

		var err error
		link, err = scanLink(tx.QueryRowContext(ctx, insertQ,
			lookbookID, in.WardrobeItemID, p.ID, in.Category, in.Role, in.Note, in.Position))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, touchLookbookSQL, lookbookID, p.ID)
		return err
	})
	if postgres.IsUniqueViolation(err) {
		return nil, domain.ErrLinkExists
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("add lookbook item: %w", err)
	}
	return link, nil
}

// UpdateItem changes the link attributes of an item in a lookbook owned by p.
func (r *Repository) UpdateItem(ctx context.Context, p access.Principal, lookbookID, itemID string, in domain.LinkUpdateInput) (*domain.Link, error) {
	if !isUUID(lookbookID) || !isUUID(itemID) {
		return nil, domain.ErrLinkNotFound
	}

	pred := access.WriteScope(p, linkCols, 7)
	q := `
UPDATE lookbook_items
SET category = COALESCE($3, category),
    role = COALESCE($4, role),
    note = COALESCE($5, note),
    position = COALESCE($6, position)
WHERE lookbook_id = $1 AND wardrobe_item_id = $2 AND ` + pred.SQL + `
RETURNING ` + linkColumns

	var link *domain.Link
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		args := append([]any{lookbookID, itemID, in.Category, in.Role, in.Note, in.Position}, pred.Args...)
		link, err = scanLink(tx.QueryRowContext(ctx, q, args...))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, touchLookbookSQL, lookbookID, p.ID)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lookbook item: %w", err)
	}
	return link, nil
}

// RemoveItem unlinks an item from a lookbook owned by p. The wardrobe item
// itself is kept.
func (r *Repository) RemoveItem(ctx context.Context, p access.Principal, lookbookID, itemID string) error {
	if !isUUID(lookbookID) || !isUUID(itemID) {
		return domain.ErrLinkNotFound
	}

	pred := access.WriteScope(p, linkCols, 3)
	q := `DELETE FROM lookbook_items WHERE lookbook_id = $1 AND wardrobe_item_id = $2 AND ` + pred.SQL

	var affected int64
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		res, err := tx.ExecContext(ctx, q, append([]any{lookbookID, itemID}, pred.Args...)...)
		if err != nil {
			return err
		}
		if affected, err = res.RowsAffected(); err != nil || affected == 0 {
			return err
		}
		_, err = tx.ExecContext(ctx, touchLookbookSQL, lookbookID, p.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove lookbook item: %w", err)
	}
	if affected == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// requireOwned fails with notFound unless table has a row id owned by p.
// table is always a constant from this package.
func (r *Repository) requireOwned(ctx context.Context, tx postgres.Querier, table, id string, p access.Principal, notFound error) error {
	pred := access.WriteScope(p, access.Columns{Owner: "user_id"}, 2)
	q := `SELECT 1 FROM ` + table + ` WHERE id = $1 AND ` + pred.SQL + ` FOR UPDATE`

	var one int
	err := tx.QueryRowContext(ctx, q, append([]any{id}, pred.Args...)...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func scanLookbook(row wardroberepo.RowScanner) (*domain.Lookbook, error) {
	var lb domain.Lookbook
	if err := row.Scan(&lb.ID, &lb.UserID, &lb.Name, &lb.Description, &lb.Occasion,
		&lb.CoverImageURL, &lb.IsPublic, &lb.CreatedAt, &lb.UpdatedAt); err != nil {
		return nil, err
	}
	return &lb, nil
}

func scanLink(row wardroberepo.RowScanner) (*domain.Link, error) {
	var l domain.Link
	if err := row.Scan(&l.LookbookID, &l.WardrobeItemID, &l.UserID, &l.Category,
		&l.Role, &l.Note, &l.Position, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
