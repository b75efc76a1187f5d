// Package closenicely closes resources whose Close errors are not worth
// propagating, logging failures at debug level instead.
package closenicely

import (
	"io"

	"go.uber.org/zap"
)

func OrDebug(closer io.Closer) {
	FuncOrDebug(closer.Close)
}

// FuncOrDebug is for close-like functions that aren't io.Closers,
// such as (*zap.Logger).Sync.
func FuncOrDebug(closer func() error) {
	if err := closer(); err != nil {
		zap.L().Debug("Failed to close resource", zap.Error(err))
	}
}
