package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/dispatch"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// Bridge adapts a frozen tool registry to an MCP server. Every registered
// tool is published with a JSON Schema derived from its parameter specs, and
// invocations are forwarded through the dispatcher so MCP callers get the
// same execution semantics as WebSocket clients.
type Bridge struct {
	log    *slog.Logger
	server *mcp.Server
}

// NewBridge builds an MCP server exposing every tool in reg.
func NewBridge(log *slog.Logger, reg *registry.Registry, dispatcher *dispatch.Dispatcher, name, version string) *Bridge {
	server := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)

	for tool := range reg.Tools() {
		server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: SchemaFor(tool.Parameters),
		}, forwardTo(dispatcher, tool.Name))
	}

	return &Bridge{
		log:    log.With("component", "mcp"),
		server: server,
	}
}

// Run serves MCP over stdio until ctx is cancelled or the peer disconnects.
func (b *Bridge) Run(ctx context.Context) error {
	b.log.Info("Serving MCP over stdio")

	return b.server.Run(ctx, &mcp.StdioTransport{})
}

// forwardTo builds an MCP tool handler that routes to the dispatcher.
// Execution failures are reported as error results rather than protocol
// errors, matching how the WebSocket path encodes them in-band.
func forwardTo(dispatcher *dispatch.Dispatcher, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params, err := ParseArguments(req)
		if err != nil {
			//nolint:nilerr // Errors are encoded in the result by convention.
			return ErrorResult("Invalid arguments: " + err.Error()), nil
		}

		result, err := dispatcher.Invoke(ctx, name, params)
		if err != nil {
			//nolint:nilerr // Errors are encoded in the result by convention.
			return ErrorResult(err.Error()), nil
		}

		encoded, err := json.Marshal(result)
		if err != nil {
			//nolint:nilerr // Errors are encoded in the result by convention.
			return ErrorResult("Failed to encode result: " + err.Error()), nil
		}

		return TextResult(string(encoded)), nil
	}
}

// SchemaFor converts a tool's parameter specs into a JSON Schema object.
// Parameters are listed as required in sorted order so the schema is stable.
func SchemaFor(params map[string]wire.ParamSpec) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(params))
	required := make([]string, 0, len(params))

	for name, spec := range params {
		properties[name] = &jsonschema.Schema{
			Type:        schemaType(spec.Type),
			Description: spec.Description,
		}
		required = append(required, name)
	}
	sort.Strings(required)

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// schemaType normalizes a parameter type string to a JSON Schema type.
func schemaType(t string) string {
	switch t {
	case "string", "integer", "number", "boolean", "object", "array":
		return t
	case "int":
		return "integer"
	case "float", "double":
		return "number"
	case "bool":
		return "boolean"
	default:
		return "string"
	}
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// ParseArguments unmarshals CallToolRequest arguments into a parameter map.
func ParseArguments(req *mcp.CallToolRequest) (map[string]any, error) {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return make(map[string]any), nil
	}

	var args map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, err
	}

	return args, nil
}
