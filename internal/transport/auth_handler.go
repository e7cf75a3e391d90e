package transport

import (
	"net/http"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	Type            string `json:"type"`
}

// LoginRequest represents the login request payload. Type is validated in
// the service against the closed role set.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Type     string `json:"type"`
}

// UserProfile is the registration response body; the password digest never
// leaves the server.
type UserProfile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Catalog   []int64   `json:"catalog"`
}

// AuthHandler handles HTTP requests for registration and the session
// lifecycle.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authGate func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authGate)
			r.Post("/logout", h.Logout)
		})
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))
		middleware.RespondError(w, "User registration failed", err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password, req.Type)
	if err != nil {
		h.logger.Debug("Registration failed", zap.Error(err))
		middleware.RespondError(w, "User registration failed", err)
		return
	}

	h.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("type", user.Type.String()),
	)
	middleware.RespondSuccess(w, "User registration successful", map[string]any{
		"user": toProfile(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondError(w, "User login failed", err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password, req.Type)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		middleware.RespondError(w, "User login failed", err)
		return
	}

	middleware.RespondSuccess(w, "User login successful", map[string]any{
		"token": token,
	})
}

// Logout handles POST /api/auth/logout. Identity and token come from the
// auth gate, not the body.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	token, tokenOK := middleware.GetToken(r.Context())
	if !ok || !tokenOK {
		middleware.RespondError(w, "User logout failed",
			domain.NewAuthenticationError("Auth token missing"))
		return
	}

	if err := h.authService.Logout(r.Context(), userID, token); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondError(w, "User logout failed", err)
		return
	}

	h.logger.Info("User logged out", zap.Int64("user_id", userID))
	middleware.RespondSuccess(w, "User logout successful", map[string]any{})
}

func toProfile(user *domain.User) UserProfile {
	catalog := user.Catalog
	if catalog == nil {
		catalog = []int64{}
	}
	return UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Type:      user.Type.String(),
		CreatedAt: user.CreatedAt,
		Catalog:   catalog,
	}
}
