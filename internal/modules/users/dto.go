package users

import "formatech/internal/domain"

type UserRequest struct {
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Email     string          `json:"email" validate:"required,email"`
	Role      domain.UserRole `json:"role" validate:"omitempty,oneof=commercial manager"`
}
