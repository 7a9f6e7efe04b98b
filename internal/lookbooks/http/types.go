package http

import (
	"context"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/lookbooks/domain"
)

// Service is what the lookbook handlers call.
type Service interface {
	List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Lookbook, error)
	Get(ctx context.Context, p access.Principal, id string) (*domain.Detail, error)
	Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Lookbook, error)
	Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Lookbook, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	AddItem(ctx context.Context, p access.Principal, lookbookID string, in domain.LinkInput) (*domain.Link, error)
	UpdateItem(ctx context.Context, p access.Principal, lookbookID, itemID string, in domain.LinkUpdateInput) (*domain.Link, error)
	RemoveItem(ctx context.Context, p access.Principal, lookbookID, itemID string) error
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}
