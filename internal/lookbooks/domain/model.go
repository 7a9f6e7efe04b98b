package domain

import (
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	wardrobe "github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

// Lookbook is a named, optionally public collection of wardrobe items.
type Lookbook struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Occasion      *string   `json:"occasion"`
	CoverImageURL *string   `json:"cover_image_url"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Link places a wardrobe item in a lookbook. Category and Note, when set,
// override the item's own values inside this lookbook.
type Link struct {
	LookbookID     string    `json:"lookbook_id"`
	WardrobeItemID string    `json:"wardrobe_item_id"`
	UserID         string    `json:"user_id"`
	Category       *string   `json:"category"`
	Role           *string   `json:"role"`
	Note           *string   `json:"note"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

// Product is a wardrobe item as it appears inside a lookbook.
type Product struct {
	wardrobe.Item
	LinkRole *string   `json:"linkRole"`
	Position int       `json:"position"`
	LinkedAt time.Time `json:"linked_at"`
}

// Flatten merges a link into its item.
func Flatten(item wardrobe.Item, link Link) Product {
	if link.Category != nil {
		item.Category = link.Category
	}
	if link.Note != nil {
		item.Note = link.Note
	}
	return Product{
		Item:     item,
		LinkRole: link.Role,
		Position: link.Position,
		LinkedAt: link.CreatedAt,
	}
}

// Detail is a lookbook with its products in display order.
type Detail struct {
	Lookbook *Lookbook `json:"lookbook"`
	Products []Product `json:"products"`
}

type CreateInput struct {
	Name          string  `json:"name" validate:"notblank,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Occasion      *string `json:"occasion,omitempty" validate:"omitempty,max=100"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,http_url"`
	IsPublic      *bool   `json:"is_public,omitempty"`
}

// UpdateInput carries the owner-writable fields; nil means unchanged.
type UpdateInput struct {
	Name          *string `json:"name,omitempty" validate:"omitnil,notblank,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Occasion      *string `json:"occasion,omitempty" validate:"omitempty,max=100"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,http_url"`
	IsPublic      *bool   `json:"is_public,omitempty"`
}

type LinkInput struct {
	WardrobeItemID string  `json:"wardrobe_item_id" validate:"required,uuid"`
	Category       *string `json:"category,omitempty" validate:"omitempty,max=60"`
	Role           *string `json:"role,omitempty" validate:"omitempty,max=60"`
	Note           *string `json:"note,omitempty" validate:"omitempty,max=2000"`
	Position       *int    `json:"position,omitempty" validate:"omitnil,gte=0"`
}

type LinkUpdateInput struct {
	Category *string `json:"category,omitempty" validate:"omitempty,max=60"`
	Role     *string `json:"role,omitempty" validate:"omitempty,max=60"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=2000"`
	Position *int    `json:"position,omitempty" validate:"omitnil,gte=0"`
}

var (
	ErrNotFound     = apperr.NotFound("lookbook not found")
	ErrItemNotFound = apperr.NotFound("wardrobe item not found")
	ErrLinkNotFound = apperr.NotFound("lookbook item not found")
	ErrLinkExists   = apperr.Validation("validation failed", map[string]string{"wardrobe_item_id": "already in lookbook"})
)
