package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/service"
)

// Mock services with pluggable behavior per test.

type mockAuthService struct {
	registerFn func(ctx context.Context, username, email, password, userType string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password, userType string) (string, error)
	logoutFn   func(ctx context.Context, userID int64, tokenString string) error
}

func (m *mockAuthService) Register(ctx context.Context, username, email, password, userType string) (*domain.User, error) {
	return m.registerFn(ctx, username, email, password, userType)
}

func (m *mockAuthService) Login(ctx context.Context, email, password, userType string) (string, error) {
	return m.loginFn(ctx, email, password, userType)
}

func (m *mockAuthService) Logout(ctx context.Context, userID int64, tokenString string) error {
	return m.logoutFn(ctx, userID, tokenString)
}

type mockCatalogService struct {
	listSellersFn   func(ctx context.Context) ([]*domain.User, error)
	sellerCatalogFn func(ctx context.Context, sellerID int64) ([]*domain.Product, error)
	createCatalogFn func(ctx context.Context, sellerID int64, productIDs []int64) error
	listProductsFn  func(ctx context.Context) ([]*domain.Product, error)
	createProductFn func(ctx context.Context, ownerID int64, name, price string, isActive bool) (*domain.Product, error)
	patchProductFn  func(ctx context.Context, actingSellerID, productID int64, patch domain.ProductPatch) error
}

func (m *mockCatalogService) ListSellers(ctx context.Context) ([]*domain.User, error) {
	return m.listSellersFn(ctx)
}

func (m *mockCatalogService) SellerCatalog(ctx context.Context, sellerID int64) ([]*domain.Product, error) {
	return m.sellerCatalogFn(ctx, sellerID)
}

func (m *mockCatalogService) CreateCatalog(ctx context.Context, sellerID int64, productIDs []int64) error {
	return m.createCatalogFn(ctx, sellerID, productIDs)
}

func (m *mockCatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return m.listProductsFn(ctx)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, ownerID int64, name, price string, isActive bool) (*domain.Product, error) {
	return m.createProductFn(ctx, ownerID, name, price, isActive)
}

func (m *mockCatalogService) PatchProduct(ctx context.Context, actingSellerID, productID int64, patch domain.ProductPatch) error {
	return m.patchProductFn(ctx, actingSellerID, productID, patch)
}

type mockOrderService struct {
	createFn        func(ctx context.Context, buyerID, sellerID int64, productIDs []int64) (*domain.Order, error)
	listForSellerFn func(ctx context.Context, sellerID int64) ([]*service.SellerOrder, error)
}

func (m *mockOrderService) Create(ctx context.Context, buyerID, sellerID int64, productIDs []int64) (*domain.Order, error) {
	return m.createFn(ctx, buyerID, sellerID, productIDs)
}

func (m *mockOrderService) ListForSeller(ctx context.Context, sellerID int64) ([]*service.SellerOrder, error) {
	return m.listForSellerFn(ctx, sellerID)
}

// passthroughGate stands in for the auth gate: it stamps a fixed identity
// onto the request context without verifying anything.
func passthroughGate(userID int64, role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			ctx = context.WithValue(ctx, middleware.TokenKey, "test-token")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	return data
}
