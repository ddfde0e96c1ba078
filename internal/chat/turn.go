package chat

import (
	"context"
	"time"

	apierrors "github.com/AlharbiAbdullah/Cortex/internal/errors"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

// Turn is one submitted message awaiting its reply. Request is a copy and is
// safe to read from another goroutine.
type Turn struct {
	ID      uint64
	Request models.ChatRequest
	Timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// Run sends the request once, bounded by the turn timeout, ctx, and
// Session.Cancel. It does not touch the Session.
func (t *Turn) Run(ctx context.Context, sender Sender) (*models.ChatResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.ctx, cancel)
	defer stop()

	resp, err := sender.Chat(ctx, t.Request)
	if err != nil && t.ctx.Err() != nil && !apierrors.IsCancelled(err) {
		// the sender reported the abort as something else
		return nil, &apierrors.CancelledError{Endpoint: models.EndpointChat}
	}
	return resp, err
}

// Cancelled reports whether the turn was cancelled
func (t *Turn) Cancelled() bool {
	return t.ctx.Err() != nil
}
