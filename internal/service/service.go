package service

import (
	"context"

	"bookstore/internal/model"
	"bookstore/internal/promotion"

	"github.com/google/uuid"
)

// BookService defines operations for browsing the catalogue.
type BookService interface {
	// GetAll retrieves books with pagination. Images are normalised.
	GetAll(ctx context.Context, limit, offset int) ([]model.Book, error)

	// GetByID retrieves a single book by ID. Images are normalised.
	GetByID(ctx context.Context, id string) (*model.Book, error)
}

// PromotionService defines operations for promotion codes.
type PromotionService interface {
	// Validate evaluates a code against an order amount. Business rejections
	// are reported in the result; the error is reserved for lookup failures
	// and invalid input.
	Validate(ctx context.Context, code string, orderAmount int64) (promotion.Result, error)

	// Import loads promotion seed files and upserts them. It returns the
	// number of promotions written.
	Import(ctx context.Context, loader promotion.Loader, paths []string) (int, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder places a pay-on-delivery order with an optional promotion code.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items and book details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}
