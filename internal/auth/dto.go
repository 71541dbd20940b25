package auth

import (
	"github.com/google/uuid"

	pkgauth "github.com/quotelane/quotelane-backend/pkg/auth"
)

// LoginRequest carries the credentials posted to /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EmployeeSummary is the caller-facing employee view, without the hash.
type EmployeeSummary struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Roles pkgauth.RoleSet `json:"roles"`
}

// LoginResponse returns the signed token plus the employee it identifies.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Employee    EmployeeSummary `json:"employee"`
}
