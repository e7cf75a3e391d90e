package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newBuyerRouter(catalog *mockCatalogService, orders *mockOrderService, role domain.Role) http.Handler {
	router := chi.NewRouter()
	handler := NewBuyerHandler(catalog, orders, zap.NewNop())
	handler.RegisterRoutes(router, passthroughGate(1, role))
	return router
}

func TestListSellersProjectsSummaries(t *testing.T) {
	catalog := &mockCatalogService{
		listSellersFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{
					ID:        3,
					Username:  "carol",
					Email:     "carol@example.com",
					Password:  "$2a$10$hash",
					Type:      domain.RoleSeller,
					CreatedAt: time.Now(),
					Catalog:   []int64{1, 2},
				},
			}, nil
		},
	}
	router := newBuyerRouter(catalog, &mockOrderService{}, domain.RoleBuyer)

	req := httptest.NewRequest("GET", "/api/buyer/list-of-sellers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Fetched list of sellers successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}

	sellers, ok := dataOf(t, body)["listOfSellers"].([]any)
	if !ok || len(sellers) != 1 {
		t.Fatalf("expected 1 seller, got %v", dataOf(t, body)["listOfSellers"])
	}
	seller := sellers[0].(map[string]any)
	if seller["username"] != "carol" {
		t.Errorf("unexpected username: %v", seller["username"])
	}
	for _, hidden := range []string{"password", "catalog", "type", "createdAt"} {
		if _, present := seller[hidden]; present {
			t.Errorf("field %q must not appear in seller summaries", hidden)
		}
	}
}

func TestBuyerRoutesRequireBuyerRole(t *testing.T) {
	router := newBuyerRouter(&mockCatalogService{}, &mockOrderService{}, domain.RoleSeller)

	req := httptest.NewRequest("GET", "/api/buyer/list-of-sellers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for seller on buyer route, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Route is only available for buyers" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestSellerCatalogProjectsItems(t *testing.T) {
	catalog := &mockCatalogService{
		sellerCatalogFn: func(ctx context.Context, sellerID int64) ([]*domain.Product, error) {
			if sellerID != 9 {
				t.Errorf("expected seller id 9, got %d", sellerID)
			}
			return []*domain.Product{
				{ID: 4, Name: "chair", Price: "120", IsActive: true, OwnerID: 9},
			}, nil
		},
	}
	router := newBuyerRouter(catalog, &mockOrderService{}, domain.RoleBuyer)

	req := httptest.NewRequest("GET", "/api/buyer/seller-catalog/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	items, ok := dataOf(t, body)["catalog"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 catalog item, got %v", dataOf(t, body)["catalog"])
	}
	item := items[0].(map[string]any)
	if item["name"] != "chair" || item["price"] != "120" {
		t.Errorf("unexpected item: %v", item)
	}
	for _, hidden := range []string{"isActive", "ownerId", "createdAt"} {
		if _, present := item[hidden]; present {
			t.Errorf("field %q must not appear in catalog items", hidden)
		}
	}
}

func TestSellerCatalogRejectsNonNumericID(t *testing.T) {
	router := newBuyerRouter(&mockCatalogService{}, &mockOrderService{}, domain.RoleBuyer)

	req := httptest.NewRequest("GET", "/api/buyer/seller-catalog/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "invalid seller_id" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestCreateOrderPassesIdentityAndProducts(t *testing.T) {
	var gotBuyerID, gotSellerID int64
	var gotProducts []int64
	orders := &mockOrderService{
		createFn: func(ctx context.Context, buyerID, sellerID int64, productIDs []int64) (*domain.Order, error) {
			gotBuyerID = buyerID
			gotSellerID = sellerID
			gotProducts = productIDs
			return &domain.Order{ID: 11, BuyerID: buyerID, SellerID: sellerID, ProductIDs: productIDs, CreatedAt: time.Now()}, nil
		},
	}
	router := newBuyerRouter(&mockCatalogService{}, orders, domain.RoleBuyer)

	req := httptest.NewRequest("POST", "/api/buyer/create-order/5",
		strings.NewReader(`{"productIds":[2,3]}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotBuyerID != 1 || gotSellerID != 5 {
		t.Errorf("unexpected parties: buyer=%d seller=%d", gotBuyerID, gotSellerID)
	}
	if len(gotProducts) != 2 || gotProducts[0] != 2 || gotProducts[1] != 3 {
		t.Errorf("unexpected products: %v", gotProducts)
	}

	body := decodeBody(t, w)
	if body["message"] != "Order creation successful" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestCreateOrderSurfacesEligibilityErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"empty order", service.ErrEmptyOrder, "you need products to create an order"},
		{"seller not found", service.ErrSellerNotFound, "seller not found"},
		{"self trade", service.ErrSelfTrade, "can't buy from same user"},
		{"outside catalog", service.ErrOutsideCatalog, "You can only add products from the seller catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &mockOrderService{
				createFn: func(ctx context.Context, buyerID, sellerID int64, productIDs []int64) (*domain.Order, error) {
					return nil, tt.err
				},
			}
			router := newBuyerRouter(&mockCatalogService{}, orders, domain.RoleBuyer)

			req := httptest.NewRequest("POST", "/api/buyer/create-order/5",
				strings.NewReader(`{"productIds":[2]}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			body := decodeBody(t, w)
			if body["message"] != "Order creation failed" {
				t.Errorf("unexpected message: %v", body["message"])
			}
			if body["error"] != tt.wantErr {
				t.Errorf("expected error %q, got %v", tt.wantErr, body["error"])
			}
		})
	}
}
