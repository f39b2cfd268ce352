package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
)

// DefaultSendTimeout bounds a single confirmation send.
const DefaultSendTimeout = 30 * time.Second

// Dispatcher hands confirmations to a background goroutine so checkout never
// waits on the mail relay. Sends outlive the request that placed the order
// but are bounded by the send timeout.
type Dispatcher struct {
	next    Notifier
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher wraps next. A non-positive timeout means DefaultSendTimeout.
func NewDispatcher(next Notifier, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{
		next:    next,
		timeout: timeout,
		logger:  logger.With().Str("component", "notify-dispatcher").Logger(),
	}
}

// OrderPlaced schedules the confirmation and returns immediately. Send
// failures are logged, never returned.
func (d *Dispatcher) OrderPlaced(ctx context.Context, order *model.OrderResponse) error {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		start := time.Now()
		if err := d.next.OrderPlaced(sendCtx, order); err != nil {
			d.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Dur("elapsed", time.Since(start)).
				Msg("order placed but confirmation could not be sent")
		}
	}()

	return nil
}

// Close waits for in-flight confirmations, giving up when ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("confirmations still in flight: %w", ctx.Err())
	}
}
