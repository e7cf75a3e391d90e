package service

import (
	"context"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// Mock repositories for testing

type mockUserRepository struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email && existing.Type == user.Type {
			return repository.ErrUserAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByEmailAndType(ctx context.Context, email string, userType domain.Role) ([]*domain.User, error) {
	matches := []*domain.User{}
	for _, user := range m.users {
		if user.Email == email && user.Type == userType {
			matches = append(matches, user)
		}
	}
	return matches, nil
}

func (m *mockUserRepository) ListByType(ctx context.Context, userType domain.Role) ([]*domain.User, error) {
	matches := []*domain.User{}
	for id := int64(1); id < m.nextID; id++ {
		if user, ok := m.users[id]; ok && user.Type == userType {
			matches = append(matches, user)
		}
	}
	return matches, nil
}

func (m *mockUserRepository) ReplaceCatalog(ctx context.Context, userID int64, catalog []int64) error {
	user, exists := m.users[userID]
	if !exists {
		return repository.ErrUserNotFound
	}
	user.Catalog = catalog
	return nil
}

type mockSessionRepository struct {
	sessions []*domain.Session
	nextID   int64
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{nextID: 1}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	session.ID = m.nextID
	m.nextID++
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockSessionRepository) IsActive(ctx context.Context, userID int64, tokenString string) (bool, error) {
	for _, session := range m.sessions {
		if session.UserID == userID && session.Token == tokenString && session.LoggedOutAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSessionRepository) Revoke(ctx context.Context, userID int64, tokenString string, loggedOutAt time.Time) error {
	for _, session := range m.sessions {
		if session.UserID == userID && session.Token == tokenString && session.LoggedOutAt == nil {
			at := loggedOutAt
			session.LoggedOutAt = &at
			return nil
		}
	}
	return nil
}

type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	product.ID = m.nextID
	m.nextID++
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	resolved := []*domain.Product{}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := m.products[id]; ok {
			resolved = append(resolved, product)
		}
	}
	return resolved, nil
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for id := m.nextID - 1; id >= 1; id-- {
		if product, ok := m.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (m *mockProductRepository) Patch(ctx context.Context, id int64, patch domain.ProductPatch) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	return nil
}

type mockOrderRepository struct {
	orders []*domain.Order
	nextID int64
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{nextID: 1}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	order.ID = m.nextID
	m.nextID++
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Order, error) {
	matches := []*domain.Order{}
	for _, order := range m.orders {
		if order.SellerID == sellerID {
			matches = append(matches, order)
		}
	}
	return matches, nil
}
