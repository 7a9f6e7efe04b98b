package service

import (
	"context"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/lookbooks/domain"
	"github.com/reoutfit/reoutfit-backend/internal/validation"
)

type Repository interface {
	List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Lookbook, error)
	Get(ctx context.Context, p access.Principal, id string) (*domain.Detail, error)
	Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Lookbook, error)
	Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Lookbook, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	AddItem(ctx context.Context, p access.Principal, lookbookID string, in domain.LinkInput) (*domain.Link, error)
	UpdateItem(ctx context.Context, p access.Principal, lookbookID, itemID string, in domain.LinkUpdateInput) (*domain.Link, error)
	RemoveItem(ctx context.Context, p access.Principal, lookbookID, itemID string) error
}

type LookbookService struct {
	repo      Repository
	validator *validation.Validator
}

func NewLookbookService(repo Repository) *LookbookService {
	return &LookbookService{repo: repo, validator: validation.New()}
}

func (s *LookbookService) List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Lookbook, error) {
	return s.repo.List(ctx, p, scope)
}

func (s *LookbookService) Get(ctx context.Context, p access.Principal, id string) (*domain.Detail, error) {
	return s.repo.Get(ctx, p, id)
}

func (s *LookbookService) Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Lookbook, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p, in)
}

func (s *LookbookService) Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Lookbook, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p, id, in)
}

func (s *LookbookService) Delete(ctx context.Context, p access.Principal, id string) error {
	return s.repo.Delete(ctx, p, id)
}

func (s *LookbookService) AddItem(ctx context.Context, p access.Principal, lookbookID string, in domain.LinkInput) (*domain.Link, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.AddItem(ctx, p, lookbookID, in)
}

func (s *LookbookService) UpdateItem(ctx context.Context, p access.Principal, lookbookID, itemID string, in domain.LinkUpdateInput) (*domain.Link, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.UpdateItem(ctx, p, lookbookID, itemID, in)
}

func (s *LookbookService) RemoveItem(ctx context.Context, p access.Principal, lookbookID, itemID string) error {
	return s.repo.RemoveItem(ctx, p, lookbookID, itemID)
}
