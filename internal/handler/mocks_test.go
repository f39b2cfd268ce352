package handler

import (
	"context"

	"bookstore/internal/model"
	"bookstore/internal/promotion"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBookService is a mock implementation of BookService.
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) GetAll(ctx context.Context, limit, offset int) ([]model.Book, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *MockBookService) GetByID(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

// MockPromotionService is a mock implementation of PromotionService.
type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) Validate(ctx context.Context, code string, orderAmount int64) (promotion.Result, error) {
	args := m.Called(ctx, code, orderAmount)
	return args.Get(0).(promotion.Result), args.Error(1)
}

func (m *MockPromotionService) Import(ctx context.Context, loader promotion.Loader, paths []string) (int, error) {
	args := m.Called(ctx, loader, paths)
	return args.Int(0), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}
