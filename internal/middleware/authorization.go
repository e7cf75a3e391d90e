package middleware

import (
	"net/http"

	"marketplace/internal/domain"

	"go.uber.org/zap"
)

var (
	errBuyersOnly  = domain.NewAuthorizationError("Route is only available for buyers")
	errSellersOnly = domain.NewAuthorizationError("Route is only available for sellers")
)

// RequireRole is the role guard: it rejects requests whose authenticated
// role does not match the route's required role. Must run after
// Authenticate. Mismatches answer 401, keeping auth failures uniform on
// the wire.
func RequireRole(required domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	var mismatch *domain.Error
	switch required {
	case domain.RoleBuyer:
		mismatch = errBuyersOnly
	case domain.RoleSeller:
		mismatch = errSellersOnly
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondError(w, authFailureMessage, mismatch)
				return
			}

			if role != required {
				logger.Debug("Role mismatch",
					zap.String("role", role.String()),
					zap.String("required", required.String()),
				)
				RespondError(w, authFailureMessage, mismatch)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
