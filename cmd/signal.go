package cmd

import (
	"context"
	"os"
	"os/signal"
)

// InterruptContext returns a context cancelled by the first of sigs. After that
// signal the default handling is restored, so a second one terminates the
// process even while an upload is still running.
func InterruptContext(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, sigs...)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
