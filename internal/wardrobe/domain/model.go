package domain

import (
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

// Item is a piece of clothing in a user's wardrobe. Items are always private
// to their owner.
type Item struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Brand      *string   `json:"brand"`
	Category   *string   `json:"category"`
	Color      *string   `json:"color"`
	Size       *string   `json:"size"`
	ImageURL   *string   `json:"image_url"`
	ProductURL *string   `json:"product_url"`
	Price      *float64  `json:"price"`
	Currency   *string   `json:"currency"`
	Note       *string   `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateInput struct {
	Name       string   `json:"name" validate:"notblank,max=200"`
	Brand      *string  `json:"brand,omitempty" validate:"omitempty,max=120"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,max=60"`
	Color      *string  `json:"color,omitempty" validate:"omitempty,max=60"`
	Size       *string  `json:"size,omitempty" validate:"omitempty,max=30"`
	ImageURL   *string  `json:"image_url,omitempty" validate:"omitempty,http_url"`
	ProductURL *string  `json:"product_url,omitempty" validate:"omitempty,http_url"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Note       *string  `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// UpdateInput carries the owner-writable fields; nil means unchanged.
type UpdateInput struct {
	Name       *string  `json:"name,omitempty" validate:"omitnil,notblank,max=200"`
	Brand      *string  `json:"brand,omitempty" validate:"omitempty,max=120"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,max=60"`
	Color      *string  `json:"color,omitempty" validate:"omitempty,max=60"`
	Size       *string  `json:"size,omitempty" validate:"omitempty,max=30"`
	ImageURL   *string  `json:"image_url,omitempty" validate:"omitempty,http_url"`
	ProductURL *string  `json:"product_url,omitempty" validate:"omitempty,http_url"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Note       *string  `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// Filter narrows List.
type Filter struct {
	Category string
	Query    string
}

var ErrNotFound = apperr.NotFound("wardrobe item not found")
