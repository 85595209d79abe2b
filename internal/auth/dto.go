package auth

import (
	"github.com/avolkov/storefront-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
// Accounts are keyed by phone number.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,e164"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload for creating a new account.
type RegisterRequest struct {
	Phone           string  `json:"phone" validate:"required,e164"`
	Username        string  `json:"username" validate:"required,min=2,max=64"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginResponse contains the token pair and user produced by a
// successful login or registration.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
