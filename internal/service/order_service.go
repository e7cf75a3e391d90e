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
	ErrEmptyOrder     = domain.NewValidationError("you need products to create an order")
	ErrSellerNotFound = domain.NewNotFoundError("seller not found")
	ErrSelfTrade      = domain.NewConflictError("can't buy from same user")
	ErrOutsideCatalog = domain.NewConflictError("You can only add products from the seller catalog")
)

// SellerOrder is an order enriched with the buyer's identity and the
// resolved product rows, the shape the seller order list needs.
type SellerOrder struct {
	Order    *domain.Order
	Buyer    *domain.User
	Products []*domain.Product
}

// OrderService checks order eligibility and records purchases.
type OrderService interface {
	Create(ctx context.Context, buyerID, sellerID int64, productIDs []int64) (*domain.Order, error)
	ListForSeller(ctx context.Context, sellerID int64) ([]*SellerOrder, error)
}

type orderService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	users repository.UserRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
) OrderService {
	return &orderService{
		users:    users,
		products: products,
		orders:   orders,
	}
}

// Create validates order eligibility and inserts the order row. The checks
// run in a fixed sequence and the insert happens only after every one of
// them has passed. Self-trade compares account ids: a buyer account and a
// seller account sharing an email are distinct accounts and may trade.
func (s *orderService) Create(ctx context.Context, buyerID, sellerID int64, productIDs []int64) (*domain.Order, error) {
	if len(productIDs) == 0 {
		return nil, ErrEmptyOrder
	}

	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	if seller.Type != domain.RoleSeller {
		return nil, ErrNotASeller
	}
	if buyerID == sellerID {
		return nil, ErrSelfTrade
	}

	inCatalog := make(map[int64]bool, len(seller.Catalog))
	for _, id := range seller.Catalog {
		inCatalog[id] = true
	}

	resolved, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	active := make(map[int64]bool, len(resolved))
	for _, product := range resolved {
		active[product.ID] = product.IsActive
	}

	// Every requested product must currently sit in the seller's catalog
	// and be active; being in the catalog at some earlier point counts for
	// nothing.
	for _, id := range productIDs {
		if !inCatalog[id] || !active[id] {
			return nil, ErrOutsideCatalog
		}
	}

	order := &domain.Order{
		BuyerID:    buyerID,
		SellerID:   sellerID,
		ProductIDs: productIDs,
		CreatedAt:  time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// ListForSeller returns the seller's received orders with buyer identity
// and product rows resolved per line item.
func (s *orderService) ListForSeller(ctx context.Context, sellerID int64) ([]*SellerOrder, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := []*SellerOrder{}
	for _, order := range orders {
		buyer, err := s.users.FindByID(ctx, order.BuyerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve buyer %d: %w", order.BuyerID, err)
		}

		resolved, err := s.products.FindByIDs(ctx, order.ProductIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve products for order %d: %w", order.ID, err)
		}
		byID := make(map[int64]*domain.Product, len(resolved))
		for _, product := range resolved {
			byID[product.ID] = product
		}

		products := []*domain.Product{}
		for _, id := range order.ProductIDs {
			if product, ok := byID[id]; ok {
				products = append(products, product)
			}
		}

		result = append(result, &SellerOrder{
			Order:    order,
			Buyer:    buyer,
			Products: products,
		})
	}

	return result, nil
}
