// Package config holds shared option types for servers and clients.
package config

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Defaults applied by ApplyDefaults.
const (
	// DefaultCallTimeout bounds how long a client call waits for its
	// correlated response.
	DefaultCallTimeout = 30 * time.Second

	// DefaultConnectTimeout bounds dialing plus the advertisement handshake.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultMaxInFlight bounds concurrently executing handler invocations
	// per session.
	DefaultMaxInFlight = 16

	// DefaultServerName mirrors the service info reported at the root
	// endpoint.
	DefaultServerName = "MCP Server for Windsurf"

	// DefaultServerVersion is reported alongside the server name.
	DefaultServerVersion = "0.1.0"
)

// Options carries configuration shared by the server and client facades.
type Options struct {
	// Logger receives structured logs. Nil means silent operation.
	Logger *slog.Logger

	// CallTimeout is the per-call response deadline.
	CallTimeout time.Duration

	// ConnectTimeout bounds connection establishment and handshake.
	ConnectTimeout time.Duration

	// MaxInFlight caps concurrently executing handlers per session.
	MaxInFlight int64

	// ServerName and ServerVersion identify the service.
	ServerName    string
	ServerVersion string

	// CheckOrigin overrides the WebSocket origin policy. Nil allows all
	// origins; this is a local tool server.
	CheckOrigin func(r *http.Request) bool
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}

	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	if o.MaxInFlight <= 0 {
		o.MaxInFlight = DefaultMaxInFlight
	}

	if o.ServerName == "" {
		o.ServerName = DefaultServerName
	}

	if o.ServerVersion == "" {
		o.ServerVersion = DefaultServerVersion
	}
}
