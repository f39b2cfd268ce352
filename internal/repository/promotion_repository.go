package repository

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// promotionRepository implements the PromotionRepository interface using PostgreSQL.
type promotionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromotionRepository {
	return &promotionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

// GetByCode retrieves a promotion by its normalised code.
func (r *promotionRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := `
		SELECT code, description, discount_type, discount_value::float8, min_amount,
		       max_uses, used_count, active, expires_at, created_at, updated_at
		FROM promotions
		WHERE code = $1
	`

	var p model.Promotion
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&p.Code,
		&p.Description,
		&p.DiscountType,
		&p.DiscountValue,
		&p.MinAmount,
		&p.MaxUses,
		&p.UsedCount,
		&p.Active,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("promotion_code", code).Msg("promotion not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promotion_code", code).Msg("failed to query promotion")
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}

	return &p, nil
}

// Redeem consumes one use of a promotion. The guard clause and the increment
// are a single statement, so concurrent redemptions cannot overshoot max_uses.
func (r *promotionRepository) Redeem(ctx context.Context, tx pgx.Tx, code string) (int, error) {
	query := `
		UPDATE promotions
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE code = $1
		  AND active
		  AND (max_uses IS NULL OR used_count < max_uses)
		  AND (expires_at IS NULL OR expires_at > NOW())
		RETURNING used_count
	`

	var usedCount int
	err := tx.QueryRow(ctx, query, code).Scan(&usedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().Str("promotion_code", code).Msg("promotion no longer redeemable")
			return 0, model.ErrPromotionUnavailable
		}
		r.logger.Error().Err(err).Str("promotion_code", code).Msg("failed to redeem promotion")
		return 0, fmt.Errorf("failed to redeem promotion: %w", err)
	}

	r.logger.Debug().
		Str("promotion_code", code).
		Int("used_count", usedCount).
		Msg("promotion redeemed")

	return usedCount, nil
}

// Upsert inserts or updates promotions by code in a single batch.
func (r *promotionRepository) Upsert(ctx context.Context, promotions []model.Promotion) error {
	if len(promotions) == 0 {
		return nil
	}

	query := `
		INSERT INTO promotions (code, description, discount_type, discount_value,
		                        min_amount, max_uses, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description,
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			min_amount = EXCLUDED.min_amount,
			max_uses = EXCLUDED.max_uses,
			active = EXCLUDED.active,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range promotions {
		batch.Queue(query,
			p.Code,
			p.Description,
			string(p.DiscountType),
			p.DiscountValue,
			p.MinAmount,
			p.MaxUses,
			p.Active,
			p.ExpiresAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range promotions {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("promotion_code", promotions[i].Code).
				Msg("failed to upsert promotion")
			return fmt.Errorf("failed to upsert promotion %s: %w", promotions[i].Code, err)
		}
	}

	r.logger.Info().
		Int("count", len(promotions)).
		Msg("promotions upserted successfully")

	return nil
}
