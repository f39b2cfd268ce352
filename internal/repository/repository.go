package repository

import (
	"context"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookRepository defines the interface for book data access operations.
type BookRepository interface {
	// GetAll retrieves books ordered by title with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Book, error)

	// GetByID retrieves a single book by its ID. It returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Book, error)

	// GetByIDs retrieves multiple books by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Book, error)
}

// PromotionRepository defines the interface for promotion data access operations.
type PromotionRepository interface {
	// GetByCode retrieves a promotion by its normalised code. It returns nil when absent.
	GetByCode(ctx context.Context, code string) (*model.Promotion, error)

	// Redeem atomically consumes one use of a promotion within the provided
	// transaction and returns the new usage count. It returns
	// model.ErrPromotionUnavailable when the promotion is inactive, expired,
	// exhausted or missing at the time of the update.
	Redeem(ctx context.Context, tx pgx.Tx, code string) (int, error)

	// Upsert inserts or updates promotions by code. Usage counts of existing
	// promotions are preserved.
	Upsert(ctx context.Context, promotions []model.Promotion) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}
