package middleware

import (
	"net/http"

	"github.com/quotelane/quotelane-backend/api/responses"
	pkgauth "github.com/quotelane/quotelane-backend/pkg/auth"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
)

// RequireRoles gates a route on a role capability check.
func RequireRoles(allowed func(pkgauth.RoleSet) bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed(RolesFromContext(r.Context())) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin restricts a route to administrators.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRoles(func(roles pkgauth.RoleSet) bool { return roles.Admin }, logg)
}
