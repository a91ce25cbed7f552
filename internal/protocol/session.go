package protocol

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/dispatch"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// Transport is the minimal duplex channel a session needs. It is satisfied
// by wsconn.Conn and by mock transports in tests.
//
// ReadFrame reports a clean remote close as io.EOF and a local close as
// net.ErrClosed. WriteFrame must be safe for concurrent use; frames from
// concurrently completing handlers are written in completion order.
type Transport interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	WriteFrame(ctx context.Context, data []byte) error
	Close() error
}

// State is the session lifecycle state.
type State int32

// Session states. Active is the only state in which requests are accepted;
// Closed is terminal and irreversible.
const (
	StateConnecting State = iota
	StateAdvertised
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAdvertised:
		return "advertised"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session serves one client over one channel: it sends the advertisement,
// then multiplexes inbound tool requests to the dispatcher.
//
// The receive loop is the only reader of the channel. Each tool_request runs
// in its own goroutine gated by a weighted semaphore, so a slow handler never
// delays later frames while the number of concurrently executing handlers
// stays bounded. Responses are written in completion order; callers correlate
// by request_id, never by ordering.
type Session struct {
	id         string
	log        *slog.Logger
	transport  Transport
	dispatcher *dispatch.Dispatcher
	adv        []wire.ToolInfo
	sem        *semaphore.Weighted

	state     atomic.Int32
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSession creates a server-role session over an established transport.
//
// adv is the ordered tool advertisement sent as the first frame. maxInFlight
// bounds concurrently executing handlers for this session.
func NewSession(
	log *slog.Logger,
	transport Transport,
	dispatcher *dispatch.Dispatcher,
	adv []wire.ToolInfo,
	maxInFlight int64,
) *Session {
	id := uuid.NewString()

	return &Session{
		id:         id,
		log:        log.With("component", "session", "session_id", id),
		transport:  transport,
		dispatcher: dispatcher,
		adv:        adv,
		sem:        semaphore.NewWeighted(maxInFlight),
		done:       make(chan struct{}),
	}
}

// ID returns the session identity assigned at creation.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Done returns a channel closed when the session stops.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close stops the session and releases the transport. Safe to call multiple
// times and concurrently with Serve.
func (s *Session) Close() error {
	s.closeDone()

	return s.transport.Close()
}

func (s *Session) closeDone() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Serve runs the session to completion: advertisement first, then the
// receive loop until channel closure or an unrecoverable read error. It
// waits for in-flight handlers before returning.
func (s *Session) Serve(ctx context.Context) error {
	s.log.Info("Client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.sendAdvertisement(ctx); err != nil {
		s.state.Store(int32(StateClosed))
		s.closeDone()

		return err
	}

	s.state.Store(int32(StateActive))

	err := s.receiveLoop(ctx)

	// Nobody can receive late results once the channel is gone; handlers
	// that honor their context stop here instead of running to completion.
	cancel()

	s.closeDone()
	s.wg.Wait()
	s.state.Store(int32(StateClosed))

	s.log.Info("Client disconnected")

	return err
}

// sendAdvertisement sends the tools_list frame before any request is read.
func (s *Session) sendAdvertisement(ctx context.Context) error {
	data, err := wire.Encode(wire.TypeToolsList, &wire.ToolsList{Tools: s.adv})
	if err != nil {
		return err
	}

	if err := s.transport.WriteFrame(ctx, data); err != nil {
		s.log.Warn("Failed to send advertisement", "error", err)

		return err
	}

	s.state.Store(int32(StateAdvertised))
	s.log.Debug("Sent tool advertisement", "tools", len(s.adv))

	return nil
}

func (s *Session) receiveLoop(ctx context.Context) error {
	for {
		raw, err := s.transport.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || isClosed(err) {
				return nil
			}

			s.log.Warn("Unrecoverable read error", "error", err)

			return err
		}

		env, err := wire.Decode(raw)
		if err != nil {
			// Malformed frames do not kill the session.
			s.log.Error("Discarding malformed frame", "error", err)

			continue
		}

		switch env.Type {
		case wire.TypeToolRequest:
			s.handleRequest(ctx, env)

		default:
			s.log.Debug("Ignoring frame of unexpected type", "type", env.Type)
		}
	}
}

// handleRequest validates a tool_request and dispatches it without blocking
// the receive loop.
func (s *Session) handleRequest(ctx context.Context, env *wire.Envelope) {
	req, err := env.Request()
	if err != nil {
		s.log.Error("Discarding malformed tool request", "error", err)

		return
	}

	if req.ToolName == "" {
		verr := &errs.ValidationError{Message: "No tool specified"}
		s.sendResponse(ctx, req.RequestID, wire.Failure(verr.Message))

		return
	}

	s.log.Debug("Tool request received", "request_id", req.RequestID, "tool", req.ToolName)

	s.wg.Go(func() {
		// Queued requests wait here in cheap goroutines; only handler
		// executions are capped.
		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.log.Debug("Session closing before dispatch", "request_id", req.RequestID)

			return
		}
		defer s.sem.Release(1)

		result, err := s.dispatcher.Invoke(ctx, req.ToolName, req.Parameters)
		if err != nil {
			s.sendResponse(ctx, req.RequestID, wire.Failure(failureMessage(err)))

			return
		}

		s.sendResponse(ctx, req.RequestID, wire.Success(result))
	})
}

// sendResponse writes exactly one tool_response frame for a request.
func (s *Session) sendResponse(ctx context.Context, requestID string, outcome wire.Outcome) {
	data, err := wire.Encode(wire.TypeToolResponse, wire.Response{
		RequestID: requestID,
		Outcome:   outcome,
	})
	if err != nil {
		s.log.Error("Failed to encode response", "request_id", requestID, "error", err)

		return
	}

	if err := s.transport.WriteFrame(ctx, data); err != nil {
		if ctx.Err() != nil {
			s.log.Debug("Could not send response during shutdown", "request_id", requestID)

			return
		}

		s.log.Error("Failed to send response", "request_id", requestID, "error", err)
	}
}

// failureMessage formats a dispatch error for the wire. Execution errors
// already carry the expected prefix; anything else gets it added.
func failureMessage(err error) string {
	var execErr *errs.ToolExecutionError
	if errors.As(err, &execErr) {
		return execErr.Error()
	}

	return "Error executing tool: " + err.Error()
}

// isClosed reports whether a read error means the channel closed rather than
// failed.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
