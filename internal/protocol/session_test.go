package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/dispatch"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// mockTransport implements Transport over buffered channels.
type mockTransport struct {
	in  chan []byte
	out chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (m *mockTransport) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case data := <-m.in:
		return data, nil
	case <-m.closed:
		return nil, net.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *mockTransport) WriteFrame(ctx context.Context, data []byte) error {
	select {
	case m.out <- data:
		return nil
	case <-m.closed:
		return net.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockTransport) Close() error {
	m.closeOnce.Do(func() {
		close(m.closed)
	})

	return nil
}

// nextFrame reads one written frame with a timeout.
func nextFrame(t *testing.T, transport *mockTransport) *wire.Envelope {
	t.Helper()

	select {
	case raw := <-transport.out:
		env, err := wire.Decode(raw)
		require.NoError(t, err)

		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")

		return nil
	}
}

func sendRequest(t *testing.T, transport *mockTransport, id, tool string, params map[string]any) {
	t.Helper()

	raw, err := wire.Encode(wire.TypeToolRequest, &wire.Request{
		RequestID:  id,
		ToolName:   tool,
		Parameters: params,
	})
	require.NoError(t, err)

	transport.in <- raw
}

func newTestDispatcher(t *testing.T, tools ...*registry.Tool) *dispatch.Dispatcher {
	t.Helper()

	reg := registry.New(slog.Default())
	for _, tool := range tools {
		require.NoError(t, reg.Register(tool))
	}

	reg.Freeze()

	return dispatch.New(slog.Default(), reg)
}

func echoRegistryTool() *registry.Tool {
	return &registry.Tool{
		Name:        "echo",
		Description: "Return input unchanged",
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			return params, nil
		},
	}
}

// startSession runs Serve in the background and returns a wait function that
// closes the transport and returns Serve's error. The session is always
// stopped by test cleanup.
func startSession(t *testing.T, sess *Session, transport *mockTransport) func() error {
	t.Helper()

	errCh := make(chan error, 1)

	go func() {
		errCh <- sess.Serve(context.Background())
	}()

	var (
		once   sync.Once
		result error
	)

	wait := func() error {
		once.Do(func() {
			transport.Close()

			select {
			case result = <-errCh:
			case <-time.After(2 * time.Second):
				t.Error("session did not stop")
			}
		})

		return result
	}

	t.Cleanup(func() {
		wait()
	})

	return wait
}

func TestSession_SendsAdvertisementFirst(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, []wire.ToolInfo{{Name: "echo"}}, 16)

	startSession(t, sess, transport)

	env := nextFrame(t, transport)
	require.Equal(t, wire.TypeToolsList, env.Type)

	list, err := env.ToolsList()
	require.NoError(t, err)
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "echo", list.Tools[0].Name)
	assert.Equal(t, StateActive, sess.State())
}

func TestSession_EchoRoundTrip(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, []wire.ToolInfo{{Name: "echo"}}, 16)

	startSession(t, sess, transport)
	nextFrame(t, transport) // advertisement

	sendRequest(t, transport, "req-1", "echo", map[string]any{"x": float64(1)})

	env := nextFrame(t, transport)
	require.Equal(t, wire.TypeToolResponse, env.Type)

	resp, err := env.Response()
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.RequestID)
	require.False(t, resp.Outcome.IsError())
	assert.Equal(t, map[string]any{"x": float64(1)}, resp.Outcome.Result())
}

func TestSession_NoToolSpecified(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	startSession(t, sess, transport)
	nextFrame(t, transport)

	sendRequest(t, transport, "req-1", "", nil)

	env := nextFrame(t, transport)
	resp, err := env.Response()
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.RequestID)
	require.True(t, resp.Outcome.IsError())
	assert.Equal(t, "No tool specified", resp.Outcome.Message())
}

func TestSession_UnknownToolReportsError(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	startSession(t, sess, transport)
	nextFrame(t, transport)

	sendRequest(t, transport, "req-1", "missing", nil)

	env := nextFrame(t, transport)
	resp, err := env.Response()
	require.NoError(t, err)
	require.True(t, resp.Outcome.IsError())
	assert.Contains(t, resp.Outcome.Message(), "missing")
	assert.Nil(t, resp.Outcome.Result())
}

func TestSession_MalformedFrameSurvival(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	startSession(t, sess, transport)
	nextFrame(t, transport)

	// A malformed frame is logged and discarded; the session survives.
	transport.in <- []byte("{this is not json")

	sendRequest(t, transport, "req-1", "echo", map[string]any{"ok": true})

	env := nextFrame(t, transport)
	resp, err := env.Response()
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.False(t, resp.Outcome.IsError())
}

func TestSession_UnexpectedFrameTypeIgnored(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	startSession(t, sess, transport)
	nextFrame(t, transport)

	raw, err := json.Marshal(map[string]any{"type": "tools_list", "data": map[string]any{}})
	require.NoError(t, err)
	transport.in <- raw

	sendRequest(t, transport, "req-1", "echo", nil)

	env := nextFrame(t, transport)
	assert.Equal(t, wire.TypeToolResponse, env.Type)
}

func TestSession_SlowToolDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})

	slow := &registry.Tool{
		Name: "slow",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			select {
			case <-release:
				return "slow done", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}

	transport := newMockTransport()
	d := newTestDispatcher(t, slow, echoRegistryTool())
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	startSession(t, sess, transport)
	nextFrame(t, transport)

	// The slow request is read first but must not delay the fast one.
	sendRequest(t, transport, "req-slow", "slow", nil)
	sendRequest(t, transport, "req-fast", "echo", nil)

	env := nextFrame(t, transport)
	resp, err := env.Response()
	require.NoError(t, err)
	assert.Equal(t, "req-fast", resp.RequestID)

	close(release)

	env = nextFrame(t, transport)
	resp, err = env.Response()
	require.NoError(t, err)
	assert.Equal(t, "req-slow", resp.RequestID)
	assert.Equal(t, "slow done", resp.Outcome.Result())
}

func TestSession_BoundedInFlightInvocations(t *testing.T) {
	const maxInFlight = 2

	var (
		running atomic.Int64
		peak    atomic.Int64
	)

	release := make(chan struct{})

	gated := &registry.Tool{
		Name: "gated",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			n := running.Add(1)
			defer running.Add(-1)

			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}

			select {
			case <-release:
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}

	transport := newMockTransport()
	d := newTestDispatcher(t, gated)
	sess := NewSession(slog.Default(), transport, d, nil, maxInFlight)

	startSession(t, sess, transport)
	nextFrame(t, transport)

	for i := range 5 {
		sendRequest(t, transport, "req-"+string(rune('a'+i)), "gated", nil)
	}

	// Let the queued goroutines contend for the semaphore.
	require.Eventually(t, func() bool {
		return running.Load() == maxInFlight
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, peak.Load(), int64(maxInFlight))

	close(release)

	for range 5 {
		env := nextFrame(t, transport)
		assert.Equal(t, wire.TypeToolResponse, env.Type)
	}

	assert.LessOrEqual(t, peak.Load(), int64(maxInFlight))
}

func TestSession_ServeReturnsNilOnClose(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t)
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	wait := startSession(t, sess, transport)
	nextFrame(t, transport)

	require.NoError(t, wait())
	assert.Equal(t, StateClosed, sess.State())

	select {
	case <-sess.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestSession_ServeReturnsReadError(t *testing.T) {
	transport := newMockTransport()
	d := newTestDispatcher(t)
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	errCh := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		errCh <- sess.Serve(ctx)
	}()

	nextFrame(t, transport)

	// Context cancellation is a clean stop, not an error.
	cancel()

	select {
	case err := <-errCh:
		require.True(t, err == nil || errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}

func TestSession_WaitsForInFlightHandlers(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	blocking := &registry.Tool{
		Name: "blocking",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			close(entered)
			<-release

			return "done", nil
		},
	}

	transport := newMockTransport()
	d := newTestDispatcher(t, blocking)
	sess := NewSession(slog.Default(), transport, d, nil, 16)

	errCh := make(chan error, 1)

	go func() {
		errCh <- sess.Serve(context.Background())
	}()

	nextFrame(t, transport)
	sendRequest(t, transport, "req-1", "blocking", nil)
	<-entered

	transport.Close()

	select {
	case <-errCh:
		t.Fatal("Serve returned while a handler was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop after handler finished")
	}
}
