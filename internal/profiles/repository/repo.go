package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/profiles/domain"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
)

const (
	profileColumns = `user_id, email, display_name, avatar_url, style_preferences, created_at, updated_at`

	ensureSQL = `
INSERT INTO profiles (user_id, email) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET email = COALESCE(profiles.email, EXCLUDED.email)
RETURNING ` + profileColumns

	seedSQL = `INSERT INTO profiles (user_id, email) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`
)

type Repository struct {
	scoper *postgres.Scoper
}

func New(scoper *postgres.Scoper) *Repository {
	return &Repository{scoper: scoper}
}

// Ensure returns the principal's profile, creating it from the principal's
// email on first access.
func (r *Repository) Ensure(ctx context.Context, p access.Principal) (*domain.Profile, error) {
	var prof *domain.Profile
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		var err error
		prof, err = scanProfile(tx.QueryRowContext(ctx, ensureSQL, p.ID, nullable(p.Email)))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return prof, nil
}

// Update patches the principal's profile. Style preferences are merged into
// the stored object at the top level.
func (r *Repository) Update(ctx context.Context, p access.Principal, in domain.UpdateInput) (*domain.Profile, error) {
	var prefs *string
	if len(in.StylePreferences) > 0 {
		b, err := json.Marshal(in.StylePreferences)
		if err != nil {
			return nil, fmt.Errorf("encode style preferences: %w", err)
		}
		s := string(b)
		prefs = &s
	}

	const q = `
UPDATE profiles
SET display_name = COALESCE($2, display_name),
    avatar_url = COALESCE($3, avatar_url),
    style_preferences = style_preferences || COALESCE($4::jsonb, '{}'::jsonb),
    updated_at = GREATEST(now(), updated_at)
WHERE user_id = $1
RETURNING ` + profileColumns

	var prof *domain.Profile
	err := r.scoper.Run(ctx, p, func(ctx context.Context, tx postgres.Querier) error {
		if _, err := tx.ExecContext(ctx, seedSQL, p.ID, nullable(p.Email)); err != nil {
			return err
		}
		var err error
		prof, err = scanProfile(tx.QueryRowContext(ctx, q, p.ID, in.DisplayName, in.AvatarURL, prefs))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return prof, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p     domain.Profile
		prefs []byte
	)
	if err := row.Scan(&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &prefs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(prefs) == 0 {
		prefs = []byte("{}")
	}
	p.StylePreferences = json.RawMessage(prefs)
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
