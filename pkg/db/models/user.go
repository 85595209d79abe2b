package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a storefront account. Phone is the login key.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone        string     `gorm:"column:phone;not null;uniqueIndex"`
	Username     string     `gorm:"column:username;not null"`
	Email        *string    `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
