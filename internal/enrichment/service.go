package enrichment

import (
	"context"
	"errors"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

// Service validates URLs and serves products from the cache, falling back to
// a deduplicated fetch.
type Service struct {
	cache Cache
	dedup *Deduper
}

func NewService(cache Cache, dedup *Deduper) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{cache: cache, dedup: dedup}
}

// Enrich returns the product at rawURL and whether it came from the cache.
// Cache failures are logged and otherwise ignored.
func (s *Service) Enrich(ctx context.Context, rawURL string) (*Product, bool, error) {
	logger := logging.FromContext(ctx)

	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, false, err
	}
	key := u.String()

	p, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("enrichment cache read failed", "error", err)
	} else if ok {
		return p, true, nil
	}

	p, err = s.dedup.Fetch(ctx, key)
	if errors.Is(err, ErrPrivateAddress) {
		logger.Warn("enrichment blocked", "url", key, "error", err)
		return nil, false, errBadURL
	}
	if err != nil {
		return nil, false, apperr.Upstream("failed to fetch product page", err)
	}

	if err := s.cache.Set(ctx, key, p); err != nil {
		logger.Warn("enrichment cache write failed", "error", err)
	}
	return p, false, nil
}
