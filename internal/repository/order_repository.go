package repository

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace/internal/domain"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a new order and fills in the generated id.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	productIDs, err := marshalIDs(order.ProductIDs)
	if err != nil {
		return fmt.Errorf("failed to encode product ids: %w", err)
	}

	query := `
		INSERT INTO orders (buyer_id, seller_id, product_ids, created_at, completed_at)
		VALUES ($1, $2, $3, $4, NULL)
		RETURNING id
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		order.BuyerID,
		order.SellerID,
		productIDs,
		order.CreatedAt,
	).Scan(&order.ID)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// ListBySeller retrieves every order placed against the given seller,
// oldest first.
func (r *orderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Order, error) {
	query := `
		SELECT id, buyer_id, seller_id, product_ids, created_at, completed_at
		FROM orders
		WHERE seller_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by seller: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		var productIDs []byte
		var completedAt sql.NullTime

		err := rows.Scan(
			&order.ID,
			&order.BuyerID,
			&order.SellerID,
			&productIDs,
			&order.CreatedAt,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		order.ProductIDs, err = unmarshalIDs(productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to decode product ids: %w", err)
		}
		if completedAt.Valid {
			order.CompletedAt = &completedAt.Time
		}

		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}
