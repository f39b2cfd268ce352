package service

import (
	"context"
	"fmt"

	"bookstore/internal/model"
	"bookstore/internal/promotion"
	"bookstore/internal/repository"

	"github.com/rs/zerolog"
)

// promotionService implements PromotionService.
type promotionService struct {
	promoRepo repository.PromotionRepository
	evaluator *promotion.Evaluator
	logger    zerolog.Logger
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(
	promoRepo repository.PromotionRepository,
	evaluator *promotion.Evaluator,
	logger zerolog.Logger,
) PromotionService {
	return &promotionService{
		promoRepo: promoRepo,
		evaluator: evaluator,
		logger:    logger.With().Str("service", "promotion").Logger(),
	}
}

// Validate evaluates code against orderAmount.
func (s *promotionService) Validate(ctx context.Context, code string, orderAmount int64) (promotion.Result, error) {
	if orderAmount < 0 {
		return promotion.Result{}, model.ErrInvalidAmount
	}

	code = promotion.NormalizeCode(code)

	var promo *model.Promotion
	if code != "" {
		var err error
		promo, err = s.promoRepo.GetByCode(ctx, code)
		if err != nil {
			s.logger.Error().Err(err).Str("promotion_code", code).Msg("failed to look up promotion")
			return promotion.Result{}, fmt.Errorf("failed to look up promotion: %w", err)
		}
	}

	result := s.evaluator.Evaluate(code, orderAmount, promo)

	s.logger.Debug().
		Str("promotion_code", code).
		Int64("order_amount", orderAmount).
		Bool("valid", result.Valid).
		Str("reason", string(result.Reason)).
		Int64("discount_amount", result.DiscountAmount).
		Msg("promotion evaluated")

	return result, nil
}

// Import loads the seed files concurrently and upserts every promotion.
func (s *promotionService) Import(ctx context.Context, loader promotion.Loader, paths []string) (int, error) {
	promotions, err := promotion.LoadAll(ctx, loader, paths, s.logger)
	if err != nil {
		return 0, fmt.Errorf("failed to load promotions: %w", err)
	}

	if err := s.promoRepo.Upsert(ctx, promotions); err != nil {
		return 0, fmt.Errorf("failed to store promotions: %w", err)
	}

	s.logger.Info().
		Int("files", len(paths)).
		Int("promotions", len(promotions)).
		Msg("promotions imported")

	return len(promotions), nil
}
