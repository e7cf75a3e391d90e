package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace/internal/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("email is already used for this user type")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmailAndType(ctx context.Context, email string, userType domain.Role) ([]*domain.User, error)
	ListByType(ctx context.Context, userType domain.Role) ([]*domain.User, error)
	ReplaceCatalog(ctx context.Context, userID int64, catalog []int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and fills in the generated id.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	catalog, err := marshalIDs(user.Catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	query := `
		INSERT INTO users (username, email, password, type, created_at, catalog)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Password,
		string(user.Type),
		user.CreatedAt,
		catalog,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by primary key.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, email, password, type, created_at, catalog
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByEmailAndType retrieves every user matching the (email, type) pair.
// The schema keeps the pair unique, but login still demands exactly one row,
// so the caller gets the full slice to count.
func (r *userRepository) FindByEmailAndType(ctx context.Context, email string, userType domain.Role) ([]*domain.User, error) {
	query := `
		SELECT id, username, email, password, type, created_at, catalog
		FROM users
		WHERE email = $1 AND type = $2
	`

	rows, err := r.db.QueryContext(ctx, query, email, string(userType))
	if err != nil {
		return nil, fmt.Errorf("failed to find users by email and type: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListByType retrieves all users with the given role, oldest first.
func (r *userRepository) ListByType(ctx context.Context, userType domain.Role) ([]*domain.User, error) {
	query := `
		SELECT id, username, email, password, type, created_at, catalog
		FROM users
		WHERE type = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, string(userType))
	if err != nil {
		return nil, fmt.Errorf("failed to list users by type: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ReplaceCatalog overwrites the seller's entire catalog list in a single
// statement, the all-or-nothing semantics catalog creation relies on.
func (r *userRepository) ReplaceCatalog(ctx context.Context, userID int64, catalog []int64) error {
	encoded, err := marshalIDs(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	query := `UPDATE users SET catalog = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, encoded, userID)
	if err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var userType string
	var catalog []byte

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&userType,
		&user.CreatedAt,
		&catalog,
	)
	if err != nil {
		return nil, err
	}

	user.Type = domain.Role(userType)
	user.Catalog, err = unmarshalIDs(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return user, nil
}

func collectUsers(rows *sql.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// marshalIDs encodes an id list as JSON for a JSONB column. A nil slice
// encodes as the empty list, never as null.
func marshalIDs(ids []int64) ([]byte, error) {
	if ids == nil {
		ids = []int64{}
	}
	return json.Marshal(ids)
}

func unmarshalIDs(data []byte) ([]int64, error) {
	ids := []int64{}
	if len(data) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
