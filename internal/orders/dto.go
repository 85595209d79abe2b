package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov/storefront-backend/pkg/db/models"
	"github.com/avolkov/storefront-backend/pkg/enums"
)

// ItemDTO is one order line on the wire.
type ItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the wire shape of an order.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	Guest         bool              `json:"guest"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Address       string            `json:"address"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Status        enums.OrderStatus `json:"status"`
	Items         []ItemDTO         `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ToDTO converts a persisted order to its wire shape.
func ToDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		Guest:         order.IsGuest(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Address:       order.Address,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		Items:         make([]ItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return dto
}
