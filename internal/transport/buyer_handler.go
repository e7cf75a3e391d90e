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

// CreateOrderRequest represents the order creation payload. Emptiness is a
// business rule checked by the order service, not a validation tag.
type CreateOrderRequest struct {
	ProductIDs []int64 `json:"productIds"`
}

// SellerSummary is the buyer-facing view of a seller account.
type SellerSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CatalogItem is the buyer-facing projection of a product: ownership and
// activity-management fields are stripped.
type CatalogItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// BuyerHandler handles the buyer-facing routes.
type BuyerHandler struct {
	catalogService service.CatalogService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewBuyerHandler creates a new BuyerHandler.
func NewBuyerHandler(
	catalogService service.CatalogService,
	orderService service.OrderService,
	logger *zap.Logger,
) *BuyerHandler {
	return &BuyerHandler{
		catalogService: catalogService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers the buyer routes behind the auth gate and the
// buyer role guard.
func (h *BuyerHandler) RegisterRoutes(r chi.Router, authGate func(http.Handler) http.Handler) {
	r.Route("/api/buyer", func(r chi.Router) {
		r.Use(authGate)
		r.Use(middleware.RequireRole(domain.RoleBuyer, h.logger))

		r.Get("/list-of-sellers", h.ListSellers)
		r.Get("/seller-catalog/{seller_id}", h.SellerCatalog)
		r.Post("/create-order/{seller_id}", h.CreateOrder)
	})
}

// ListSellers handles GET /api/buyer/list-of-sellers.
func (h *BuyerHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.catalogService.ListSellers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sellers", zap.Error(err))
		middleware.RespondError(w, "Fetching list of sellers failed", err)
		return
	}

	summaries := make([]SellerSummary, 0, len(sellers))
	for _, seller := range sellers {
		summaries = append(summaries, SellerSummary{
			ID:       seller.ID,
			Username: seller.Username,
			Email:    seller.Email,
		})
	}

	middleware.RespondSuccess(w, "Fetched list of sellers successfully", map[string]any{
		"listOfSellers": summaries,
	})
}

// SellerCatalog handles GET /api/buyer/seller-catalog/{seller_id}.
func (h *BuyerHandler) SellerCatalog(w http.ResponseWriter, r *http.Request) {
	sellerID, err := strconv.ParseInt(chi.URLParam(r, "seller_id"), 10, 64)
	if err != nil {
		middleware.RespondError(w, "Fetching seller catalog failed",
			domain.NewValidationError("invalid seller_id"))
		return
	}

	catalog, err := h.catalogService.SellerCatalog(r.Context(), sellerID)
	if err != nil {
		h.logger.Debug("Failed to fetch seller catalog", zap.Error(err))
		middleware.RespondError(w, "Fetching seller catalog failed", err)
		return
	}

	items := make([]CatalogItem, 0, len(catalog))
	for _, product := range catalog {
		items = append(items, CatalogItem{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
		})
	}

	middleware.RespondSuccess(w, "Fetched seller catalog successfully", map[string]any{
		"catalog": items,
	})
}

// CreateOrder handles POST /api/buyer/create-order/{seller_id}.
func (h *BuyerHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	sellerID, err := strconv.ParseInt(chi.URLParam(r, "seller_id"), 10, 64)
	if err != nil {
		middleware.RespondError(w, "Order creation failed",
			domain.NewValidationError("invalid seller_id"))
		return
	}

	buyerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, "Order creation failed",
			domain.NewAuthenticationError("Auth token missing"))
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, "Order creation failed", err)
		return
	}

	order, err := h.orderService.Create(r.Context(), buyerID, sellerID, req.ProductIDs)
	if err != nil {
		h.logger.Debug("Order creation rejected", zap.Error(err))
		middleware.RespondError(w, "Order creation failed", err)
		return
	}

	h.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("buyer_id", buyerID),
		zap.Int64("seller_id", sellerID),
	)
	middleware.RespondSuccess(w, "Order creation successful", map[string]any{})
}
