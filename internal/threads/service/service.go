package service

import (
	"context"
	"errors"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/threads/domain"
	"github.com/reoutfit/reoutfit-backend/internal/validation"
)

// Repository is the persistence the thread service needs.
type Repository interface {
	List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Thread, error)
	Get(ctx context.Context, p access.Principal, id string) (*domain.Thread, error)
	Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Thread, error)
	Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Thread, error)
	Delete(ctx context.Context, p access.Principal, id string) error
}

// ThreadService validates input before it reaches the repository.
type ThreadService struct {
	repo      Repository
	validator *validation.Validator
}

func NewThreadService(repo Repository) *ThreadService {
	return &ThreadService{repo: repo, validator: validation.New()}
}

func (s *ThreadService) List(ctx context.Context, p access.Principal, scope access.Scope) ([]domain.Thread, error) {
	return s.repo.List(ctx, p, scope)
}

func (s *ThreadService) Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Thread, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p, in)
}

// Validate reports whether id names a thread visible to p.
func (s *ThreadService) Validate(ctx context.Context, p access.Principal, id string) (*domain.Validation, error) {
	t, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return &domain.Validation{
		ThreadID: t.ThreadID,
		IsOwner:  access.CanWrite(p, t.UserID),
		IsPublic: t.IsPublic,
	}, nil
}

func (s *ThreadService) Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Thread, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p, id, in)
}

func (s *ThreadService) Delete(ctx context.Context, p access.Principal, id string) error {
	return s.repo.Delete(ctx, p, id)
}

// IsNotFound reports a missing or invisible thread.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
