package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/model"
	"bookstore/internal/notify"
	"bookstore/internal/promotion"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	bookRepo  repository.BookRepository
	promoRepo repository.PromotionRepository
	evaluator *promotion.Evaluator
	notifier  notify.Notifier
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	bookRepo repository.BookRepository,
	promoRepo repository.PromotionRepository,
	evaluator *promotion.Evaluator,
	notifier notify.Notifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		promoRepo: promoRepo,
		evaluator: evaluator,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder prices the cart from stored book prices, applies the promotion
// code if any, and persists the order. The promotion is redeemed in the same
// transaction as the order insert.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	lines := mergeItems(req.Items)
	bookIDs := make([]string, len(lines))
	for i, line := range lines {
		bookIDs[i] = line.BookID
	}

	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("book_count", len(bookIDs)).Msg("failed to load books")
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	prices := make(map[string]int64, len(books))
	for _, b := range books {
		prices[b.ID] = b.Price
	}

	var subtotal int64
	for _, line := range lines {
		price, ok := prices[line.BookID]
		if !ok {
			s.logger.Warn().Str("book_id", line.BookID).Msg("book not found")
			return nil, model.ErrBookNotFound
		}
		subtotal += price * int64(line.Quantity)
	}

	var (
		promoCode *string
		discount  int64
	)
	if req.PromotionCode != nil {
		if code := promotion.NormalizeCode(*req.PromotionCode); code != "" {
			result, err := s.evaluatePromotion(ctx, code, subtotal)
			if err != nil {
				return nil, err
			}
			promoCode = &code
			discount = result.DiscountAmount
		}
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:              uuid.New(),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		PaymentMethod:   model.PaymentMethodCOD,
		PromotionCode:   promoCode,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		Total:           subtotal - discount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	orderItems := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			BookID:    line.BookID,
			Quantity:  line.Quantity,
			UnitPrice: prices[line.BookID],
		}
	}

	if err := s.persist(ctx, order, orderItems); err != nil {
		return nil, err
	}

	withImages(books)
	resp := &model.OrderResponse{
		Order: *order,
		Items: orderItems,
		Books: books,
	}

	if err := s.notifier.OrderPlaced(ctx, resp); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("order placed but confirmation could not be sent")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Int64("subtotal", order.Subtotal).
		Int64("discount_amount", order.DiscountAmount).
		Int64("total", order.Total).
		Msg("order created successfully")

	return resp, nil
}

// evaluatePromotion re-checks the code against the priced cart.
func (s *orderService) evaluatePromotion(ctx context.Context, code string, subtotal int64) (promotion.Result, error) {
	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("promotion_code", code).Msg("failed to look up promotion")
		return promotion.Result{}, fmt.Errorf("failed to look up promotion: %w", err)
	}

	result := s.evaluator.Evaluate(code, subtotal, promo)
	if !result.Valid {
		s.logger.Warn().
			Str("promotion_code", code).
			Str("reason", string(result.Reason)).
			Msg("promotion rejected at checkout")
		return result, result.Err()
	}

	return result, nil
}

// persist writes the order in one transaction, redeeming its promotion first.
func (s *orderService) persist(ctx context.Context, order *model.Order, items []model.OrderItem) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if order.PromotionCode != nil {
		if _, err = s.promoRepo.Redeem(ctx, tx, *order.PromotionCode); err != nil {
			return err
		}
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID with all items and book details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	bookIDs := make([]string, len(items))
	for i, item := range items {
		bookIDs[i] = item.BookID
	}

	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve book details")
		return nil, fmt.Errorf("failed to retrieve book details: %w", err)
	}
	withImages(books)

	return &model.OrderResponse{
		Order: *order,
		Items: items,
		Books: books,
	}, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "order request is required")
	}

	required := []struct {
		field, value string
	}{
		{"customerName", req.CustomerName},
		{"customerPhone", req.CustomerPhone},
		{"shippingAddress", req.ShippingAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return model.NewDomainError(model.ErrCodeMissingField, r.field+" is required")
		}
	}

	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.BookID == "" {
			return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("item %d: bookId is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("book_id", item.BookID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// mergeItems folds repeated book IDs into one line, keeping first-seen order.
func mergeItems(items []model.OrderItemRequest) []model.OrderItemRequest {
	index := make(map[string]int, len(items))
	merged := make([]model.OrderItemRequest, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.BookID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.BookID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
