package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID   uint
	Role models.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.UserRoleAdmin
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=150"`
	LastName    string `json:"last_name" validate:"required,max=150"`
	Address     string `json:"address" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Role        string `json:"role" validate:"required,is-signup-role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}
