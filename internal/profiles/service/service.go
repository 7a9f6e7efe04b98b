package service

import (
	"context"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/profiles/cache"
	"github.com/reoutfit/reoutfit-backend/internal/profiles/domain"
	"github.com/reoutfit/reoutfit-backend/internal/validation"
)

type Repository interface {
	Ensure(ctx context.Context, p access.Principal) (*domain.Profile, error)
	Update(ctx context.Context, p access.Principal, in domain.UpdateInput) (*domain.Profile, error)
}

// ProfileService reads through the cache and keeps it current on writes.
type ProfileService struct {
	repo      Repository
	cache     *cache.Cache
	validator *validation.Validator
}

func NewProfileService(repo Repository, c *cache.Cache) *ProfileService {
	return &ProfileService{repo: repo, cache: c, validator: validation.New()}
}

func (s *ProfileService) Get(ctx context.Context, p access.Principal) (*domain.Profile, error) {
	if prof, ok := s.cache.Get(p.ID); ok {
		return prof, nil
	}
	prof, err := s.repo.Ensure(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.Set(p.ID, prof)
	return prof, nil
}

func (s *ProfileService) Update(ctx context.Context, p access.Principal, in domain.UpdateInput) (*domain.Profile, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	s.cache.Invalidate(p.ID)
	prof, err := s.repo.Update(ctx, p, in)
	if err != nil {
		return nil, err
	}
	s.cache.Set(p.ID, prof)
	return prof, nil
}

// Forget drops the cached profile, e.g. on logout.
func (s *ProfileService) Forget(userID string) {
	s.cache.Invalidate(userID)
}
