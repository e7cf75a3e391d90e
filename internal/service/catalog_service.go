package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

var (
	ErrEmptyCatalog   = domain.NewValidationError("you need products to create a catalog")
	ErrForeignProduct = domain.NewConflictError("You can only add your products to the catalog")
	ErrUserNotFound   = domain.NewNotFoundError("user not found")
	ErrNotASeller     = domain.NewConflictError("user is not a seller")
	ErrNotOwner       = domain.NewConflictError("You can't update products created by others")
)

// CatalogService covers seller product management and buyer-facing catalog
// reads.
type CatalogService interface {
	ListSellers(ctx context.Context) ([]*domain.User, error)
	SellerCatalog(ctx context.Context, sellerID int64) ([]*domain.Product, error)
	CreateCatalog(ctx context.Context, sellerID int64, productIDs []int64) error
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, ownerID int64, name, price string, isActive bool) (*domain.Product, error)
	PatchProduct(ctx context.Context, actingSellerID, productID int64, patch domain.ProductPatch) error
}

type catalogService struct {
	users    repository.UserRepository
	products repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	users repository.UserRepository,
	products repository.ProductRepository,
) CatalogService {
	return &catalogService{
		users:    users,
		products: products,
	}
}

// ListSellers returns every seller account.
func (s *catalogService) ListSellers(ctx context.Context) ([]*domain.User, error) {
	sellers, err := s.users.ListByType(ctx, domain.RoleSeller)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	return sellers, nil
}

// SellerCatalog resolves a seller's current catalog for a buyer. Only
// active products are surfaced, in catalog order.
func (s *catalogService) SellerCatalog(ctx context.Context, sellerID int64) ([]*domain.Product, error) {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	if seller.Type != domain.RoleSeller {
		return nil, ErrNotASeller
	}

	resolved, err := s.products.FindByIDs(ctx, seller.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog products: %w", err)
	}

	byID := make(map[int64]*domain.Product, len(resolved))
	for _, product := range resolved {
		byID[product.ID] = product
	}

	catalog := []*domain.Product{}
	for _, id := range seller.Catalog {
		product, ok := byID[id]
		if !ok || !product.IsActive {
			continue
		}
		catalog = append(catalog, product)
	}

	return catalog, nil
}

// CreateCatalog replaces the seller's entire catalog. Every requested id
// must resolve to a product owned by the acting seller; the resolved count
// matching the requested count rejects non-existent and other-owned ids
// alike, and a failed check writes nothing.
func (s *catalogService) CreateCatalog(ctx context.Context, sellerID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return ErrEmptyCatalog
	}

	resolved, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve products: %w", err)
	}

	owned := make(map[int64]bool, len(resolved))
	for _, product := range resolved {
		if product.OwnerID == sellerID {
			owned[product.ID] = true
		}
	}
	for _, id := range productIDs {
		if !owned[id] {
			return ErrForeignProduct
		}
	}

	if err := s.users.ReplaceCatalog(ctx, sellerID, productIDs); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	return nil
}

// ListProducts returns every product, newest first. This is the management
// view; no visibility filtering applies.
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a product owned by the acting seller.
func (s *catalogService) CreateProduct(ctx context.Context, ownerID int64, name, price string, isActive bool) (*domain.Product, error) {
	product := &domain.Product{
		Name:      name,
		Price:     price,
		IsActive:  isActive,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// PatchProduct applies a partial update after confirming ownership.
func (s *catalogService) PatchProduct(ctx context.Context, actingSellerID, productID int64, patch domain.ProductPatch) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrNotOwner
		}
		return fmt.Errorf("failed to find product: %w", err)
	}
	if product.OwnerID != actingSellerID {
		return ErrNotOwner
	}

	if err := s.products.Patch(ctx, productID, patch); err != nil {
		return fmt.Errorf("failed to patch product: %w", err)
	}

	return nil
}
