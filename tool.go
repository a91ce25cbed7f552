package windsurfmcp

import (
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// Tool describes a named capability: its advertisement metadata plus the
// handler invoked when a client calls it.
type Tool = registry.Tool

// Handler is the function invoked when a tool is called. It receives the
// caller's parameter bundle and returns a JSON-encodable result or an error.
// The context is cancelled when the session or server shuts down.
type Handler = registry.Handler

// ParamSpec describes one tool parameter for the advertisement.
type ParamSpec = wire.ParamSpec

// ToolInfo is the advertised descriptor of a tool: name, description, and
// parameter specs, without the handler.
type ToolInfo = wire.ToolInfo

// NewTool builds a tool descriptor.
func NewTool(name, description string, params map[string]ParamSpec, handler Handler) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
		Handler:     handler,
	}
}
