package windsurfmcp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/config"
)

// Option configures servers and clients using the functional options pattern.
type Option func(*config.Options)

// applyOptions applies functional options on top of the defaults.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}
	options.ApplyDefaults()

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithCallTimeout bounds how long a call waits for its correlated response
// before failing with a TimeoutError. The default is 30 seconds.
func WithCallTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.CallTimeout = timeout
	}
}

// WithConnectTimeout bounds dialing plus the advertisement handshake.
// The default is 10 seconds.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.ConnectTimeout = timeout
	}
}

// WithMaxInFlight caps how many tool handlers a server session runs
// concurrently. Excess requests queue until a slot frees. The default is 16.
func WithMaxInFlight(n int64) Option {
	return func(o *config.Options) {
		o.MaxInFlight = n
	}
}

// WithServerInfo sets the name and version the server reports at its root
// endpoint and over MCP.
func WithServerInfo(name, version string) Option {
	return func(o *config.Options) {
		o.ServerName = name
		o.ServerVersion = version
	}
}

// WithCheckOrigin overrides the WebSocket origin policy.
// If not set, all origins are accepted.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(o *config.Options) {
		o.CheckOrigin = check
	}
}
