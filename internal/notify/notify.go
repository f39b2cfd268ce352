// Package notify sends order confirmations to customers.
package notify

import (
	"context"

	"bookstore/internal/config"
	"bookstore/internal/model"

	"github.com/rs/zerolog"
)

// Notifier is told about every order that has been committed.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *model.OrderResponse) error
}

// New returns an SMTP notifier when mail is enabled and a no-op notifier otherwise.
func New(cfg config.SMTPConfig, locale string, logger zerolog.Logger) (Notifier, error) {
	if !cfg.Enabled {
		logger.Info().Msg("SMTP disabled, order confirmations will not be sent")
		return NewNoopNotifier(logger), nil
	}
	return NewSMTPNotifier(cfg, locale, logger)
}

type noopNotifier struct {
	logger zerolog.Logger
}

// NewNoopNotifier creates a notifier that only logs.
func NewNoopNotifier(logger zerolog.Logger) Notifier {
	return &noopNotifier{logger: logger.With().Str("component", "noop-notifier").Logger()}
}

func (n *noopNotifier) OrderPlaced(ctx context.Context, order *model.OrderResponse) error {
	n.logger.Debug().Str("order_id", order.ID.String()).Msg("order confirmation skipped")
	return nil
}
