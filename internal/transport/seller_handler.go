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

// CreateCatalogRequest represents the catalog replacement payload.
type CreateCatalogRequest struct {
	Products []int64 `json:"products"`
}

// SellerOrderView is one received order with buyer identity and resolved
// product lines.
type SellerOrderView struct {
	ID          int64         `json:"id"`
	BuyerID     int64         `json:"buyerId"`
	BuyerName   string        `json:"buyerName"`
	BuyerEmail  string        `json:"buyerEmail"`
	Products    []CatalogItem `json:"products"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt"`
}

// SellerHandler handles the seller-facing routes.
type SellerHandler struct {
	catalogService service.CatalogService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(
	catalogService service.CatalogService,
	orderService service.OrderService,
	logger *zap.Logger,
) *SellerHandler {
	return &SellerHandler{
		catalogService: catalogService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers the seller routes behind the auth gate and the
// seller role guard.
func (h *SellerHandler) RegisterRoutes(r chi.Router, authGate func(http.Handler) http.Handler) {
	r.Route("/api/seller", func(r chi.Router) {
		r.Use(authGate)
		r.Use(middleware.RequireRole(domain.RoleSeller, h.logger))

		r.Post("/create-catalog", h.CreateCatalog)
		r.Get("/orders", h.ListOrders)
	})
}

// CreateCatalog handles POST /api/seller/create-catalog.
func (h *SellerHandler) CreateCatalog(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, "Creation of seller catalog failed",
			domain.NewAuthenticationError("Auth token missing"))
		return
	}

	var req CreateCatalogRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondError(w, "Creation of seller catalog failed", err)
		return
	}

	if err := h.catalogService.CreateCatalog(r.Context(), sellerID, req.Products); err != nil {
		h.logger.Debug("Catalog creation rejected", zap.Error(err))
		middleware.RespondError(w, "Creation of seller catalog failed", err)
		return
	}

	h.logger.Info("Catalog replaced",
		zap.Int64("seller_id", sellerID),
		zap.Int("products", len(req.Products)),
	)
	middleware.RespondSuccess(w, "Creation of seller catalog successful", map[string]any{})
}

// ListOrders handles GET /api/seller/orders.
func (h *SellerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondError(w, "Fetching list of received orders failed",
			domain.NewAuthenticationError("Auth token missing"))
		return
	}

	orders, err := h.orderService.ListForSeller(r.Context(), sellerID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondError(w, "Fetching list of received orders failed", err)
		return
	}

	views := make([]SellerOrderView, 0, len(orders))
	for _, order := range orders {
		products := make([]CatalogItem, 0, len(order.Products))
		for _, product := range order.Products {
			products = append(products, CatalogItem{
				ID:    product.ID,
				Name:  product.Name,
				Price: product.Price,
			})
		}

		views = append(views, SellerOrderView{
			ID:          order.Order.ID,
			BuyerID:     order.Buyer.ID,
			BuyerName:   order.Buyer.Username,
			BuyerEmail:  order.Buyer.Email,
			Products:    products,
			CreatedAt:   order.Order.CreatedAt,
			CompletedAt: order.Order.CompletedAt,
		})
	}

	middleware.RespondSuccess(w, "Fetched list of received orders successfully", map[string]any{
		"orders": views,
	})
}
