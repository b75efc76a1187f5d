package cleanup

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/klothoplatform/tablestream/pkg/multierr"
	"go.uber.org/zap"
)

type Callback func(signal syscall.Signal) error

var callbacks []Callback

// OnKill registers a callback to run when the process receives a
// termination signal, before the handler context is cancelled.
func OnKill(callback Callback) {
	callbacks = append(callbacks, callback)
}

func Execute(signal syscall.Signal) error {
	var merr multierr.Error

	for _, cb := range callbacks {
		if err := cb(signal); err != nil {
			merr.Append(err)
		}
	}
	return merr.ErrOrNil()
}

// InitializeHandler returns a context that is cancelled after a
// SIGTERM, SIGINT, or SIGQUIT. Callbacks registered via OnKill run
// first so that state can be flushed before in-flight engine
// operations are interrupted.
func InitializeHandler(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		zap.S().Infof("Received signal: %v", sig)
		if err := Execute(sig.(syscall.Signal)); err != nil {
			zap.S().Errorf("Error executing cleanup callbacks: %v", err)
		}
		cancel()
	}()

	return ctx
}
