package service

import (
	"context"
	"errors"
	"strings"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/enrichment"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
	"github.com/reoutfit/reoutfit-backend/internal/validation"
	"github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

type Repository interface {
	List(ctx context.Context, p access.Principal, f domain.Filter) ([]domain.Item, error)
	Get(ctx context.Context, p access.Principal, id string) (*domain.Item, error)
	Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Item, error)
	Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Item, error)
	Delete(ctx context.Context, p access.Principal, id string) error
}

type Enricher interface {
	Enrich(ctx context.Context, rawURL string) (*enrichment.Product, bool, error)
}

// WardrobeService validates input and fills items from their product pages.
type WardrobeService struct {
	repo      Repository
	enricher  Enricher
	validator *validation.Validator
}

func NewWardrobeService(repo Repository, enricher Enricher) *WardrobeService {
	return &WardrobeService{repo: repo, enricher: enricher, validator: validation.New()}
}

func (s *WardrobeService) List(ctx context.Context, p access.Principal, f domain.Filter) ([]domain.Item, error) {
	return s.repo.List(ctx, p, f)
}

func (s *WardrobeService) Get(ctx context.Context, p access.Principal, id string) (*domain.Item, error) {
	return s.repo.Get(ctx, p, id)
}

func (s *WardrobeService) Create(ctx context.Context, p access.Principal, in domain.CreateInput) (*domain.Item, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p, in)
}

func (s *WardrobeService) Update(ctx context.Context, p access.Principal, id string, in domain.UpdateInput) (*domain.Item, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p, id, in)
}

func (s *WardrobeService) Delete(ctx context.Context, p access.Principal, id string) error {
	return s.repo.Delete(ctx, p, id)
}

// Enrich fetches the item's product page and fills the item's empty fields.
// Fields the owner already set are never overwritten.
func (s *WardrobeService) Enrich(ctx context.Context, p access.Principal, id string) (*domain.Item, bool, error) {
	item, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, false, err
	}
	if item.ProductURL == nil || strings.TrimSpace(*item.ProductURL) == "" {
		return nil, false, apperr.Validation("validation failed", map[string]string{"product_url": "is required"})
	}

	product, cached, err := s.enricher.Enrich(ctx, *item.ProductURL)
	if err != nil {
		return nil, false, err
	}

	patch := s.dropInvalid(ctx, FillFromProduct(item, product))
	if patch == (domain.UpdateInput{}) {
		return item, cached, nil
	}

	updated, err := s.repo.Update(ctx, p, id, patch)
	if err != nil {
		return nil, false, err
	}
	return updated, cached, nil
}

// dropInvalid clears the scraped fields that fail the same rules as a user
// update, keeping the rest.
func (s *WardrobeService) dropInvalid(ctx context.Context, in domain.UpdateInput) domain.UpdateInput {
	err := s.validator.Validate(in)
	if err == nil {
		return in
	}

	var (
		ae     *apperr.Error
		fields map[string]string
	)
	if errors.As(err, &ae) {
		fields, _ = ae.Details.(map[string]string)
	}
	logging.FromContext(ctx).Debug("dropping invalid enrichment fields", "fields", fields)

	for name := range fields {
		switch name {
		case "brand":
			in.Brand = nil
		case "category":
			in.Category = nil
		case "color":
			in.Color = nil
		case "image_url":
			in.ImageURL = nil
		case "price", "currency":
			in.Price, in.Currency = nil, nil
		}
	}
	if s.validator.Validate(in) != nil {
		return domain.UpdateInput{}
	}
	return in
}

// FillFromProduct returns an update setting only the fields item lacks.
func FillFromProduct(item *domain.Item, product *enrichment.Product) domain.UpdateInput {
	var in domain.UpdateInput
	if product == nil {
		return in
	}

	fill := func(dst *string, src string) *string {
		if (dst == nil || strings.TrimSpace(*dst) == "") && strings.TrimSpace(src) != "" {
			v := strings.TrimSpace(src)
			return &v
		}
		return nil
	}

	in.Brand = fill(item.Brand, product.Brand)
	in.Category = fill(item.Category, product.Category)
	in.Color = fill(item.Color, product.Color)
	in.ImageURL = fill(item.ImageURL, product.ImageURL)
	if item.Price == nil && product.Price != nil {
		price := *product.Price
		in.Price = &price
		if len(product.Currency) == 3 {
			in.Currency = fill(item.Currency, product.Currency)
		}
	}
	return in
}
