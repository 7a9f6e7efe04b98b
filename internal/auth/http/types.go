package http

import (
	"context"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/auth/supabase"
)

// SessionProvider is the upstream identity service.
type SessionProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type userResponse struct {
	User access.Principal `json:"user"`
}
