//go:build !linux

package system

import (
	"context"

	"github.com/charmbracelet/log"
)

// StartExitOnKey is a no-op outside linux.
func StartExitOnKey(ctx context.Context, logger *log.Logger, key uint16, onExit func()) {
	if logger != nil {
		logger.Debug("exit key is only supported on linux")
	}
}
