// Package account simulates connecting a mail account. No credentials are
// exchanged; a successful connect only changes what the synthetic source emits.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultHandshake is how long Connect pretends to negotiate.
const DefaultHandshake = 2 * time.Second

// Connector tracks the simulated connection state.
type Connector struct {
	handshake time.Duration
	connected atomic.Bool
	logger    *slog.Logger
}

// NewConnector returns a disconnected Connector.
func NewConnector(handshake time.Duration, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		handshake: handshake,
		logger:    logger.With("component", "account"),
	}
}

// Connect waits for the handshake delay and marks the account connected.
// Connecting an already connected account is a no-op.
func (c *Connector) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	c.logger.InfoContext(ctx, "Connecting mail account...")
	select {
	case <-time.After(c.handshake):
	case <-ctx.Done():
		return fmt.Errorf("account connect aborted: %w", ctx.Err())
	}

	c.connected.Store(true)
	c.logger.InfoContext(ctx, "Mail account connected")
	return nil
}

// Connected reports the connection state.
func (c *Connector) Connected() bool {
	return c.connected.Load()
}

// MarkConnected skips the handshake, for accounts configured as connected.
func (c *Connector) MarkConnected() {
	c.connected.Store(true)
}
