package http

import (
	"context"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

type Service interface {
	List(ctx context.Context, p access.Principal, f domain.Filter) ([]domain.Item, error)
	Get(ctx context.Context, p access.Principal, id string) (*domain.Item, error)
	Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Item, error)
	Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Item, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	Enrich(ctx context.Context, p access.Principal, id string) (*domain.Item, bool, error)
}

// Handler bundles the dependencies for wardrobe HTTP endpoints.
type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}
