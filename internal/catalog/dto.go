package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov/storefront-backend/pkg/db/models"
)

// CategoryDTO is the wire shape of a catalog category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}

// ProductDTO is the wire shape of a catalog product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   bool            `json:"available"`
	Category    *CategoryDTO    `json:"category,omitempty"`
}

// ListingDTO is the response body for the product listing endpoint.
type ListingDTO struct {
	Category   *CategoryDTO  `json:"category,omitempty"`
	Categories []CategoryDTO `json:"categories"`
	Products   []ProductDTO  `json:"products"`
}

func toCategoryDTO(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func toProductDTO(p *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
	}
	if p.Category != nil {
		dto.Category = toCategoryDTO(p.Category)
	}
	return dto
}
