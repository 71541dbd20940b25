package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgauth "github.com/quotelane/quotelane-backend/pkg/auth"
)

type contextKey string

const (
	ctxEmployeeID contextKey = "employee_id"
	ctxRoles      contextKey = "employee_roles"
	ctxSessionID  contextKey = "session_id"
)

func EmployeeIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxEmployeeID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RolesFromContext(ctx context.Context) pkgauth.RoleSet {
	if ctx == nil {
		return pkgauth.RoleSet{}
	}
	if v, ok := ctx.Value(ctxRoles).(pkgauth.RoleSet); ok {
		return v
	}
	return pkgauth.RoleSet{}
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithEmployee injects the authenticated employee into the context.
func WithEmployee(ctx context.Context, employeeID uuid.UUID, roles pkgauth.RoleSet) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmployeeID, employeeID)
	return context.WithValue(ctx, ctxRoles, roles)
}
