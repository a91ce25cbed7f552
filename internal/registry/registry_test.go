package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

func echoTool(name string) *Tool {
	return &Tool{
		Name:        name,
		Description: "Return input unchanged",
		Parameters: map[string]wire.ParamSpec{
			"x": {Type: "object", Description: "Anything"},
		},
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			return params, nil
		},
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := New(slog.Default())

	registered := echoTool("echo")
	require.NoError(t, reg.Register(registered))

	tool, err := reg.Lookup("echo")
	require.NoError(t, err)
	assert.Equal(t, registered.Name, tool.Name)
	assert.Equal(t, registered.Description, tool.Description)
	assert.Equal(t, registered.Parameters, tool.Parameters)
	assert.NotNil(t, tool.Handler)
}

func TestRegistry_Lookup_Unregistered(t *testing.T) {
	reg := New(slog.Default())

	_, err := reg.Lookup("missing")
	require.Error(t, err)

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Tool)
}

func TestRegistry_DuplicateFailsFast(t *testing.T) {
	reg := New(slog.Default())

	require.NoError(t, reg.Register(echoTool("echo")))

	err := reg.Register(echoTool("echo"))
	require.Error(t, err)

	var dup *errs.DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "echo", dup.Tool)

	// The original descriptor survives.
	tool, err := reg.Lookup("echo")
	require.NoError(t, err)
	assert.Equal(t, "Return input unchanged", tool.Description)
}

func TestRegistry_FreezeRejectsRegistration(t *testing.T) {
	reg := New(slog.Default())

	require.NoError(t, reg.Register(echoTool("echo")))

	reg.Freeze()
	reg.Freeze() // idempotent

	err := reg.Register(echoTool("late"))
	require.ErrorIs(t, err, errs.ErrRegistryFrozen)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ToolsRegistrationOrder(t *testing.T) {
	reg := New(slog.Default())

	names := []string{"file_search", "code_analysis", "web_request", "github_list_repos"}
	for _, name := range names {
		require.NoError(t, reg.Register(echoTool(name)))
	}

	var got []string
	for tool := range reg.Tools() {
		got = append(got, tool.Name)
	}

	assert.Equal(t, names, got)

	// The sequence is restartable.
	got = got[:0]

	for tool := range reg.Tools() {
		got = append(got, tool.Name)
	}

	assert.Equal(t, names, got)
}

func TestRegistry_ToolsEarlyBreak(t *testing.T) {
	reg := New(slog.Default())
	require.NoError(t, reg.Register(echoTool("a")))
	require.NoError(t, reg.Register(echoTool("b")))

	count := 0
	for range reg.Tools() {
		count++

		break
	}

	assert.Equal(t, 1, count)
}

func TestRegistry_Advertisement(t *testing.T) {
	reg := New(slog.Default())
	require.NoError(t, reg.Register(echoTool("echo")))

	infos := reg.Advertisement()
	require.Len(t, infos, 1)
	assert.Equal(t, "echo", infos[0].Name)
	assert.Contains(t, infos[0].Parameters, "x")
}
