package windsurfmcp

import (
	"context"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/client"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wsconn"
)

// Client is a connected tool caller.
//
// Clients are single-use: after Close (or connection loss) dial a new one.
// Call may be used from many goroutines concurrently; responses are matched
// to their requests regardless of arrival order.
type Client interface {
	// Tools returns the server's tool advertisement in server order.
	Tools() []ToolInfo

	// Call invokes a named tool and blocks until the correlated response
	// arrives, the call timeout elapses, the connection drops, or ctx is
	// cancelled. It returns *UnknownToolError for tools absent from the
	// advertisement, *TimeoutError when the deadline passes, and
	// *ConnectionClosedError when the channel goes away mid-call.
	Call(ctx context.Context, tool string, params map[string]any) (any, error)

	// Close tears the connection down. Outstanding calls fail with
	// *ConnectionClosedError. Close is idempotent.
	Close() error
}

// Dial connects to a server's WebSocket endpoint and performs the handshake:
// the server speaks first with its tool advertisement. The returned client is
// ready for Call.
//
// The dial plus handshake is bounded by the connect timeout (see
// WithConnectTimeout).
func Dial(ctx context.Context, url string, opts ...Option) (Client, error) {
	options := applyOptions(opts)

	dialCtx, cancel := context.WithTimeout(ctx, options.ConnectTimeout)
	defer cancel()

	conn, err := wsconn.Dial(dialCtx, options.Logger, url)
	if err != nil {
		return nil, err
	}

	c := client.New(options.Logger, conn, options.CallTimeout)
	if err := c.Connect(dialCtx); err != nil {
		_ = conn.Close()

		return nil, err
	}

	return c, nil
}
