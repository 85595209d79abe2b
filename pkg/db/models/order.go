package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov/storefront-backend/pkg/enums"
)

// Order is a materialized cart. UserID is nil for guest orders, in which case
// the customer contact columns carry the buyer's details instead.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	CustomerName  string            `gorm:"column:customer_name;not null;default:''"`
	CustomerEmail string            `gorm:"column:customer_email;not null;default:''"`
	CustomerPhone string            `gorm:"column:customer_phone;not null;default:''"`
	Address       string            `gorm:"column:address;not null"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsGuest reports whether the order was placed without an account.
func (o *Order) IsGuest() bool {
	return o != nil && o.UserID == nil
}
