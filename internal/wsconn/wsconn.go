// Package wsconn adapts a gorilla/websocket connection to the frame
// transport used by sessions and clients.
//
// Reads surface a clean peer close as io.EOF and a locally closed connection
// as net.ErrClosed, which is what the session and client receive loops treat
// as channel closure. Writes are serialized by a mutex; WebSocket frames
// from concurrently completing handlers must not interleave.
package wsconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeGracePeriod = time.Second

// Conn is one established WebSocket channel carrying JSON text frames.
type Conn struct {
	log *slog.Logger
	ws  *websocket.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// New wraps an already established WebSocket connection.
func New(log *slog.Logger, ws *websocket.Conn) *Conn {
	return &Conn{
		log:    log.With("component", "wsconn"),
		ws:     ws,
		closed: make(chan struct{}),
	}
}

// Dial establishes a client WebSocket connection to url.
func Dial(ctx context.Context, log *slog.Logger, url string) (*Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	return New(log, ws), nil
}

// ReadFrame blocks until the next frame arrives. A context deadline, if set,
// bounds the read.
func (c *Conn) ReadFrame(ctx context.Context) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := c.ws.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, c.translateError(err)
	}

	return data, nil
}

// WriteFrame sends one text frame. Safe for concurrent use.
func (c *Conn) WriteFrame(ctx context.Context, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}

	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return c.translateError(err)
	}

	return nil
}

// Close sends a close frame best-effort and tears down the connection.
// Safe to call multiple times.
func (c *Conn) Close() error {
	var err error

	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()

		_ = c.ws.SetWriteDeadline(time.Now().Add(closeGracePeriod))
		_ = c.ws.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)

		c.writeMu.Unlock()

		err = c.ws.Close()

		c.log.Debug("Connection closed")
	})

	return err
}

// translateError normalizes websocket close conditions so callers only deal
// with io.EOF and net.ErrClosed.
func (c *Conn) translateError(err error) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return io.EOF
	}

	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrUnexpectedEOF) {
		return net.ErrClosed
	}

	return err
}
