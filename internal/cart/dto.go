package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDTO is one cart line in the cart view, priced from the live
// catalog row when the product still exists.
type LineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available bool            `json:"available"`
}

// SummaryDTO is the full cart view.
type SummaryDTO struct {
	Items     []LineDTO       `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// MutationDTO is the response to cart add/remove operations.
type MutationDTO struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CartCount int    `json:"cart_count"`
}
