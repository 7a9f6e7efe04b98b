package http

import (
	"context"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/threads/domain"
)

// Service is what the thread handlers call.
type Service interface {
	List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Thread, error)
	Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Thread, error)
	Validate(ctx context.Context, p access.Principal, id string) (*domain.Validation, error)
	Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Thread, error)
	Delete(ctx context.Context, p access.Principal, id string) error
}

// Handler bundles the dependencies for thread HTTP endpoints.
type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}
