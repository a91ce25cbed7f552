package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/protocol"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// Client is the caller role of a session: it issues tool calls over one
// shared channel and correlates responses by request id.
//
// A single receive loop is the only reader of the channel. Calls register a
// pending entry in the correlation table before sending; the loop resolves
// entries as matching responses arrive. Clients are single-use: once closed
// they cannot reconnect.
type Client struct {
	log         *slog.Logger
	transport   protocol.Transport
	table       *protocol.Table
	callTimeout time.Duration

	// Advertisement, cached at connect. Written once by Connect before the
	// receive loop starts, read-only afterwards.
	tools   []wire.ToolInfo
	offered map[string]struct{}

	errMu    sync.RWMutex
	fatalErr error

	connected atomic.Bool
	closeOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a client over an established transport. Connect must be called
// before Call.
func New(log *slog.Logger, transport protocol.Transport, callTimeout time.Duration) *Client {
	return &Client{
		log:         log.With("component", "client"),
		transport:   transport,
		table:       protocol.NewTable(),
		callTimeout: callTimeout,
		done:        make(chan struct{}),
	}
}

// Connect performs the session handshake: the first frame must be the
// tools_list advertisement, which is cached for local validation. On success
// the receive loop starts and the client is ready for Call.
func (c *Client) Connect(ctx context.Context) error {
	raw, err := c.transport.ReadFrame(ctx)
	if err != nil {
		return fmt.Errorf("awaiting advertisement: %w", err)
	}

	env, err := wire.Decode(raw)
	if err != nil {
		return err
	}

	if env.Type != wire.TypeToolsList {
		c.log.Error("Unexpected first frame", "type", env.Type)

		return fmt.Errorf("%w, got %q", errs.ErrAdvertisementExpected, env.Type)
	}

	list, err := env.ToolsList()
	if err != nil {
		return err
	}

	c.tools = list.Tools
	c.offered = make(map[string]struct{}, len(list.Tools))

	for _, tool := range list.Tools {
		c.offered[tool.Name] = struct{}{}
	}

	c.connected.Store(true)

	c.wg.Add(1)

	go c.receiveLoop(context.WithoutCancel(ctx))

	c.log.Info("Connected", "tools", len(c.tools))

	return nil
}

// Tools returns the cached advertisement in server order.
func (c *Client) Tools() []wire.ToolInfo {
	tools := make([]wire.ToolInfo, len(c.tools))
	copy(tools, c.tools)

	return tools
}

// Call invokes a named tool and blocks until the correlated response, the
// call timeout, connection loss, or context cancellation.
//
// Returns *errs.UnknownToolError if the tool is absent from the cached
// advertisement, *errs.TimeoutError when the deadline elapses (any response
// arriving afterward is dropped), and *errs.ConnectionClosedError if the
// channel drops while the call is outstanding. Remote failures are reported
// as errors wrapping errs.ErrToolFailed.
func (c *Client) Call(ctx context.Context, tool string, params map[string]any) (any, error) {
	if !c.connected.Load() {
		return nil, errs.ErrClientNotConnected
	}

	select {
	case <-c.done:
		return nil, c.closedError()
	default:
	}

	if _, ok := c.offered[tool]; !ok {
		return nil, &errs.UnknownToolError{Tool: tool}
	}

	// Unique within the session lifetime.
	requestID := ulid.Make().String()

	pending, err := c.table.Add(requestID)
	if err != nil {
		return nil, err
	}

	raw, err := wire.Encode(wire.TypeToolRequest, &wire.Request{
		RequestID:  requestID,
		ToolName:   tool,
		Parameters: params,
	})
	if err != nil {
		c.table.Remove(requestID)

		return nil, fmt.Errorf("encode request: %w", err)
	}

	if err := c.transport.WriteFrame(ctx, raw); err != nil {
		c.table.Remove(requestID)

		return nil, fmt.Errorf("send request: %w", err)
	}

	c.log.Debug("Sent tool request", "request_id", requestID, "tool", tool)

	select {
	case res := <-pending.Resolved():
		return res.Value, res.Err

	case <-time.After(c.callTimeout):
		// Purge the entry so the late response is dropped as unmatched.
		c.table.Remove(requestID)

		c.log.Warn("Tool call timed out", "request_id", requestID, "tool", tool, "timeout", c.callTimeout)

		return nil, &errs.TimeoutError{Tool: tool, Timeout: c.callTimeout}

	case <-c.done:
		if c.table.Remove(requestID) {
			return nil, c.closedError()
		}

		// The teardown already claimed the entry; its result is in the slot.
		res := <-pending.Resolved()

		return res.Value, res.Err

	case <-ctx.Done():
		c.table.Remove(requestID)

		return nil, ctx.Err()
	}
}

// Close tears down the session. Every remaining pending call resolves with
// *errs.ConnectionClosedError and the correlation table is left empty.
func (c *Client) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.log.Debug("Closing client")

		err = c.transport.Close()

		// The receive loop exits on the closed transport and abandons any
		// remaining pending calls before we return.
		c.wg.Wait()
		c.closeDone()

		c.table.FailAll(&errs.ConnectionClosedError{Err: c.fatalError()})
	})

	return err
}

func (c *Client) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// Done returns a channel closed once the client has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// receiveLoop is the session's only reader. It resolves correlation entries
// for matching responses and drops everything unmatched.
func (c *Client) receiveLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		raw, err := c.transport.ReadFrame(ctx)
		if err != nil {
			c.teardown(err)

			return
		}

		env, err := wire.Decode(raw)
		if err != nil {
			c.log.Error("Discarding malformed frame", "error", err)

			continue
		}

		switch env.Type {
		case wire.TypeToolResponse:
			c.handleResponse(env)

		case wire.TypeToolsList:
			// The advertisement arrives at most once, during Connect.
			c.log.Warn("Protocol violation: duplicate tools_list frame ignored")

		default:
			c.log.Debug("Ignoring frame of unexpected type", "type", env.Type)
		}
	}
}

func (c *Client) handleResponse(env *wire.Envelope) {
	resp, err := env.Response()
	if err != nil {
		c.log.Error("Discarding malformed tool response", "error", err)

		return
	}

	var res protocol.Result
	if resp.Outcome.IsError() {
		res.Err = fmt.Errorf("%w: %s", errs.ErrToolFailed, resp.Outcome.Message())
	} else {
		res.Value = resp.Outcome.Result()
	}

	if !c.table.Resolve(resp.RequestID, res) {
		// Late, duplicate, or unknown id: dropped without side effects.
		c.log.Debug("Dropping response with no pending request", "request_id", resp.RequestID)

		return
	}

	c.log.Debug("Resolved response", "request_id", resp.RequestID)
}

// teardown records the fatal read error and abandons every pending call.
func (c *Client) teardown(readErr error) {
	if !errors.Is(readErr, context.Canceled) && !isClosed(readErr) {
		c.setFatalError(readErr)
		c.log.Warn("Connection lost", "error", readErr)
	} else {
		c.log.Debug("Receive loop stopped")
	}

	_ = c.transport.Close()
	c.closeDone()

	c.table.FailAll(&errs.ConnectionClosedError{Err: c.fatalError()})
}

// isClosed reports whether a read error means the channel closed rather than
// failed.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

func (c *Client) setFatalError(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}
}

func (c *Client) fatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

func (c *Client) closedError() error {
	if err := c.fatalError(); err != nil {
		return &errs.ConnectionClosedError{Err: err}
	}

	return errs.ErrClientClosed
}
