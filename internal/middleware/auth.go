package middleware

import (
	"context"
	"net/http"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/token"

	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	TokenKey    contextKey = "token"
)

// All auth gate failures share this envelope message; the error string
// carries the specific cause.
const authFailureMessage = "Authentication required"

var (
	errMissingToken = domain.NewAuthenticationError("Auth token missing")
	errEmptyToken   = domain.NewAuthenticationError("Token is required")
	errStaleSession = domain.NewAuthenticationError("session is no longer active")
)

// Authenticate is the auth gate: it extracts the bearer token, verifies the
// signature and expiry window, confirms the session has not been logged
// out, and attaches the resolved identity to the request context. Each
// failed check is a 401 exit, except a session-store outage, which answers
// 500; the two expiry mechanisms (signed window, logical revocation) are
// deliberately checked independently.
func Authenticate(issuer *token.Issuer, sessions repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondError(w, authFailureMessage, errMissingToken)
				return
			}

			rest, ok := strings.CutPrefix(authHeader, "Bearer ")
			tokenString := strings.TrimSpace(rest)
			if !ok || tokenString == "" {
				logger.Debug("Malformed or empty bearer token")
				RespondError(w, authFailureMessage, errEmptyToken)
				return
			}

			claims, err := issuer.Verify(tokenString)
			if err != nil {
				logger.Debug("Token verification failed", zap.Error(err))
				RespondError(w, authFailureMessage, err)
				return
			}

			userID, err := claims.Subject()
			if err != nil {
				logger.Debug("Malformed subject claim", zap.String("userId", claims.UserID))
				RespondError(w, authFailureMessage, err)
				return
			}

			active, err := sessions.IsActive(r.Context(), userID, tokenString)
			if err != nil {
				// Infrastructure failure, not a revoked session.
				logger.Error("Session lookup failed", zap.Error(err))
				RespondErrorStatus(w, http.StatusInternalServerError,
					"Something went wrong", "internal server error")
				return
			}
			if !active {
				logger.Debug("Session revoked or never recorded",
					zap.Int64("user_id", userID),
				)
				RespondError(w, authFailureMessage, errStaleSession)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.UserType)
			ctx = context.WithValue(ctx, TokenKey, tokenString)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserRole extracts the authenticated role from the request context.
func GetUserRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(UserRoleKey).(domain.Role)
	return role, ok
}

// GetToken extracts the raw bearer token from the request context.
func GetToken(ctx context.Context) (string, bool) {
	tokenString, ok := ctx.Value(TokenKey).(string)
	return tokenString, ok
}
