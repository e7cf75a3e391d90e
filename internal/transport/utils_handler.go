package transport

import (
	"net/http"
	"strconv"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload. IsActive
// is a pointer so that an absent field is distinguishable from false.
type CreateProductRequest struct {
	Name     string `json:"name" validate:"required"`
	Price    string `json:"price" validate:"required"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// PatchProductRequest represents a partial product update: only supplied
// fields change.
type PatchProductRequest struct {
	Name     *string `json:"name"`
	Price    *string `json:"price"`
	IsActive *bool   `json:"isActive"`
}

// UtilsHandler handles the shared utility routes: role listing for the
// registration form and product management.
type UtilsHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewUtilsHandler creates a new UtilsHandler.
func NewUtilsHandler(catalogService service.CatalogService, logger *zap.Logger) *UtilsHandler {
	return &UtilsHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the utility routes. The role list is public;
// product reads need any authenticated user, product writes a seller.
func (h *UtilsHandler) RegisterRoutes(r chi.Router, authGate func(http.Handler) http.Handler) {
	r.Route("/api/utils", func(r chi.Router) {
		r.Get("/user-roles", h.UserRoles)

		r.Group(func(r chi.Router) {
			r.Use(authGate)
			r.Get("/products", h.ListProducts)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleSeller, h.logger))
				r.Post("/products", h.CreateProduct)
				r.Patch("/products/{id}", h.PatchProduct)
			})
		})
	})
}

// UserRoles handles GET /api/utils/user-roles.
func (h *UtilsHandler) UserRoles(w http.ResponseWriter, r *http.Request) {
	middleware.RespondSuccess(w, "Fetched user roles successfully", domain.Roles())
}

// ListProducts handles GET /api/utils/products.
func (h *UtilsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondError(w, "Fetching list of products failed", err)
		return
	}

	middleware.RespondSuccess(w, "Fetched list of products successfully", map[string]any{
		"productList": products,
	})
}

// CreateProduct handles POST /api/utils/products.
func (h *UtilsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, "Product creation failed",
			domain.NewAuthenticationError("Auth token missing"))
		return
	}

	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, "Product creation failed", err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), sellerID, req.Name, req.Price, *req.IsActive)
	if err != nil {
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondError(w, "Product creation failed", err)
		return
	}

	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("owner_id", sellerID),
	)
	middleware.RespondSuccess(w, "Product creation successful", map[string]any{})
}

// PatchProduct handles PATCH /api/utils/products/{id}.
func (h *UtilsHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondError(w, "Product update failed",
			domain.NewValidationError("Invalid product id"))
		return
	}

	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, "Product update failed",
			domain.NewAuthenticationError("Auth token missing"))
		return
	}

	var req PatchProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, "Product update failed", err)
		return
	}

	patch := domain.ProductPatch{
		Name:     req.Name,
		Price:    req.Price,
		IsActive: req.IsActive,
	}
	if err := h.catalogService.PatchProduct(r.Context(), sellerID, productID, patch); err != nil {
		h.logger.Debug("Product update rejected", zap.Error(err))
		middleware.RespondError(w, "Product update failed", err)
		return
	}

	middleware.RespondSuccess(w, "Product update successful", map[string]any{})
}
