package domain

import "time"

// User represents a marketplace account. The same email may exist once per
// role, so (Email, Type) is the unique pair, not Email alone. Catalog holds
// the ordered product ids a seller currently offers and is replaced
// wholesale, never merged.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Type      Role      `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Catalog   []int64   `json:"catalog" db:"catalog"`
}

// Session is one login/logout pair. A session is active while LoggedOutAt
// is nil; logout sets the timestamp instead of deleting the row, keeping an
// audit trail of every login.
type Session struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	Token       string     `json:"token" db:"token"`
	LoggedInAt  time.Time  `json:"loggedInAt" db:"logged_in_at"`
	LoggedOutAt *time.Time `json:"loggedOutAt" db:"logged_out_at"`
}

// Product is a sellable item. Price is a decimal kept as a string to avoid
// float rounding. IsActive gates buyer-facing visibility only; the owning
// seller always sees the product.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     string    `json:"price" db:"price"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	OwnerID   int64     `json:"ownerId" db:"owner_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductPatch carries a partial product update; nil fields are left
// untouched.
type ProductPatch struct {
	Name     *string
	Price    *string
	IsActive *bool
}

// Order records a purchase of one or more catalog products. CompletedAt is
// reserved for future fulfillment tracking and stays nil for now.
type Order struct {
	ID          int64      `json:"id" db:"id"`
	BuyerID     int64      `json:"buyerId" db:"buyer_id"`
	SellerID    int64      `json:"sellerId" db:"seller_id"`
	ProductIDs  []int64    `json:"productIds" db:"product_ids"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
}
