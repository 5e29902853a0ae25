package dto

import (
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- User DTOs ---

// RegisterUserRequest defines data for registering a local user.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines data for updating a user. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name       *string          `json:"name,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourlyRate,omitempty"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID       string           `json:"userID"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	AuthProvider string           `json:"authProvider"`
	HourlyRate   *decimal.Decimal `json:"hourlyRate,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:       u.UserID,
		Name:         u.Name,
		Email:        u.Email,
		AuthProvider: string(u.AuthProvider),
		HourlyRate:   u.HourlyRate,
		CreatedAt:    u.CreatedAt,
	}
}
