package employees

import "github.com/quotelane/quotelane-backend/pkg/auth"

// CreateEmployeeInput carries the fields accepted when onboarding staff.
type CreateEmployeeInput struct {
	Name     string
	Email    string
	Password string
	Address  *string
	Roles    auth.RoleSet
}

// UpdateEmployeeInput is a field-level partial update; nil leaves a column
// untouched. A supplied password is re-hashed before storage.
type UpdateEmployeeInput struct {
	Name     *string
	Email    *string
	Password *string
	Address  *string
	Roles    *auth.RoleSet
}
