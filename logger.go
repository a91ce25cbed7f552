package windsurfmcp

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger whose output goes nowhere. It is the default
// for servers and clients constructed without WithLogger.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
