package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// WithShutdownSignals returns a context cancelled on SIGINT or SIGTERM.
func WithShutdownSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func moduleName(m any) string {
	return fmt.Sprintf("%T", m)
}
