package domain

import (
	"encoding/json"
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

// Profile is the per-user record created on first access.
type Profile struct {
	UserID           string          `json:"user_id"`
	Email            *string         `json:"email"`
	DisplayName      *string         `json:"display_name"`
	AvatarURL        *string         `json:"avatar_url"`
	StylePreferences json.RawMessage `json:"style_preferences"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Clone returns a copy that shares no memory with p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Email = cloneString(p.Email)
	out.DisplayName = cloneString(p.DisplayName)
	out.AvatarURL = cloneString(p.AvatarURL)
	if p.StylePreferences != nil {
		out.StylePreferences = append(json.RawMessage(nil), p.StylePreferences...)
	}
	return &out
}

// UpdateInput patches a profile. StylePreferences is merged into the stored
// object key by key.
type UpdateInput struct {
	DisplayName      *string        `json:"display_name,omitempty" validate:"omitnil,notblank,max=120"`
	AvatarURL        *string        `json:"avatar_url,omitempty" validate:"omitempty,http_url"`
	StylePreferences map[string]any `json:"style_preferences,omitempty"`
}

var ErrNotFound = apperr.NotFound("profile not found")

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
