package windsurfmcp_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	windsurfmcp "github.com/rohanbanda-TRT/windsurf-mcp-integration"
)

func echoTool() *windsurfmcp.Tool {
	return windsurfmcp.NewTool("echo", "Echoes its input",
		map[string]windsurfmcp.ParamSpec{
			"text": {Type: "string", Description: "Text to echo back"},
		},
		func(_ context.Context, params map[string]any) (any, error) {
			return params["text"], nil
		},
	)
}

func failTool() *windsurfmcp.Tool {
	return windsurfmcp.NewTool("fail", "Always fails", nil,
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("intentional failure")
		},
	)
}

// startServer mounts a server on an httptest listener and returns the
// WebSocket endpoint URL.
func startServer(t *testing.T, tools []*windsurfmcp.Tool, opts ...windsurfmcp.Option) string {
	t.Helper()

	srv, err := windsurfmcp.NewServer(tools, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})

	return strings.Replace(ts.URL, "http://", "ws://", 1) + "/ws"
}

func TestNewServerRejectsDuplicateTools(t *testing.T) {
	_, err := windsurfmcp.NewServer([]*windsurfmcp.Tool{echoTool(), echoTool()})

	var dup *windsurfmcp.DuplicateToolError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "echo", dup.Tool)
}

func TestDialAndCall(t *testing.T) {
	url := startServer(t, []*windsurfmcp.Tool{echoTool(), failTool()})

	ctx := context.Background()
	client, err := windsurfmcp.Dial(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	tools := client.Tools()
	require.Len(t, tools, 2)
	require.Equal(t, "echo", tools[0].Name)
	require.Equal(t, "fail", tools[1].Name)

	result, err := client.Call(ctx, "echo", map[string]any{"text": "hello"})
	require.NoError(t, err)
	require.Equal(t, "hello", result)
}

func TestCallRemoteFailure(t *testing.T) {
	url := startServer(t, []*windsurfmcp.Tool{failTool()})

	ctx := context.Background()
	client, err := windsurfmcp.Dial(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(ctx, "fail", nil)
	require.ErrorIs(t, err, windsurfmcp.ErrToolFailed)
	require.Contains(t, err.Error(), "intentional failure")
}

func TestCallUnknownTool(t *testing.T) {
	url := startServer(t, []*windsurfmcp.Tool{echoTool()})

	ctx := context.Background()
	client, err := windsurfmcp.Dial(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(ctx, "missing", nil)

	var unknown *windsurfmcp.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "missing", unknown.Tool)
}

func TestCallAfterClose(t *testing.T) {
	url := startServer(t, []*windsurfmcp.Tool{echoTool()})

	ctx := context.Background()
	client, err := windsurfmcp.Dial(ctx, url)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = client.Call(ctx, "echo", map[string]any{"text": "late"})
	require.ErrorIs(t, err, windsurfmcp.ErrClientClosed)
}

func TestOneShotCall(t *testing.T) {
	url := startServer(t, []*windsurfmcp.Tool{echoTool()})

	result, err := windsurfmcp.Call(context.Background(), url, "echo",
		map[string]any{"text": "one shot"})
	require.NoError(t, err)
	require.Equal(t, "one shot", result)
}

func TestCallTimeout(t *testing.T) {
	slow := windsurfmcp.NewTool("slow", "Sleeps past the deadline", nil,
		func(ctx context.Context, _ map[string]any) (any, error) {
			select {
			case <-time.After(2 * time.Second):
				return "done", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	)
	url := startServer(t, []*windsurfmcp.Tool{slow})

	ctx := context.Background()
	client, err := windsurfmcp.Dial(ctx, url, windsurfmcp.WithCallTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(ctx, "slow", nil)

	var timeout *windsurfmcp.TimeoutError
	require.ErrorAs(t, err, &timeout)
	require.Equal(t, "slow", timeout.Tool)
}

func TestDialRefusedAddress(t *testing.T) {
	_, err := windsurfmcp.Dial(context.Background(), "ws://127.0.0.1:1/ws",
		windsurfmcp.WithConnectTimeout(time.Second))
	require.Error(t, err)
}
