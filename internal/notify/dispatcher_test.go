package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingNotifier holds every send until release is closed or ctx ends.
type blockingNotifier struct {
	release chan struct{}
	sent    chan error
	err     error
}

func newBlockingNotifier() *blockingNotifier {
	return &blockingNotifier{release: make(chan struct{}), sent: make(chan error, 4)}
}

func (b *blockingNotifier) OrderPlaced(ctx context.Context, order *model.OrderResponse) error {
	select {
	case <-b.release:
		b.sent <- ctx.Err()
		return b.err
	case <-ctx.Done():
		b.sent <- ctx.Err()
		return ctx.Err()
	}
}

func TestDispatcher_ReturnsBeforeSendCompletes(t *testing.T) {
	next := newBlockingNotifier()
	d := NewDispatcher(next, time.Minute, zerolog.Nop())

	start := time.Now()
	err := d.OrderPlaced(context.Background(), testOrder("a@example.com"))

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(next.release)
	require.NoError(t, d.Close(context.Background()))
	assert.NoError(t, <-next.sent)
}

func TestDispatcher_SurvivesRequestCancellation(t *testing.T) {
	next := newBlockingNotifier()
	d := NewDispatcher(next, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.OrderPlaced(ctx, testOrder("a@example.com")))
	cancel()

	close(next.release)
	require.NoError(t, d.Close(context.Background()))
	assert.NoError(t, <-next.sent, "send context must not follow the request")
}

func TestDispatcher_SendTimeout(t *testing.T) {
	next := newBlockingNotifier()
	d := NewDispatcher(next, 20*time.Millisecond, zerolog.Nop())

	require.NoError(t, d.OrderPlaced(context.Background(), testOrder("a@example.com")))
	require.NoError(t, d.Close(context.Background()))

	assert.ErrorIs(t, <-next.sent, context.DeadlineExceeded)
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	next := newBlockingNotifier()
	next.err = errors.New("relay refused")
	close(next.release)
	d := NewDispatcher(next, 0, zerolog.Nop())

	assert.Equal(t, DefaultSendTimeout, d.timeout)
	assert.NoError(t, d.OrderPlaced(context.Background(), testOrder("a@example.com")))
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_CloseGivesUp(t *testing.T) {
	next := newBlockingNotifier()
	d := NewDispatcher(next, time.Minute, zerolog.Nop())
	require.NoError(t, d.OrderPlaced(context.Background(), testOrder("a@example.com")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Close(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(next.release)
	require.NoError(t, d.Close(context.Background()))
}
