package domain

import (
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

// Thread is a chat conversation owned by a user. Its id is shared with the
// LangGraph thread of the same conversation.
type Thread struct {
	ThreadID  string    `json:"thread_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput registers a thread. ThreadID is optional; when omitted the
// server assigns one.
type CreateInput struct {
	ThreadID *string `json:"thread_id,omitempty" validate:"omitempty,uuid"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// UpdateInput carries the owner-writable fields; nil means unchanged.
type UpdateInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// Validation answers whether a thread id can be opened by the caller.
type Validation struct {
	ThreadID string `json:"thread_id"`
	IsOwner  bool   `json:"is_owner"`
	IsPublic bool   `json:"is_public"`
}

var (
	ErrNotFound = apperr.NotFound("thread not found")
	ErrExists   = apperr.Validation("validation failed", map[string]string{"thread_id": "already exists"})
)
