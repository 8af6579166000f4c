package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals end the process gracefully
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// WithSignal derives a context that is canceled on SIGINT or SIGTERM.
// The returned stop func cancels the context and restores default signal handling.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, shutdownSignals...)
}
