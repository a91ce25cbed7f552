// Package tools provides the built-in tool set: file search, code analysis,
// outbound HTTP requests, and GitHub repository listing.
//
// Handlers return plain errors for soft failures; the dispatch layer turns
// them into failure outcomes on the wire.
package tools

import (
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
)

// All returns the built-in tools in their canonical registration order.
func All() []*registry.Tool {
	return []*registry.Tool{
		FileSearch(),
		CodeAnalysis(),
		WebRequest(),
		GitHubListRepos(),
	}
}

// RegisterAll registers every built-in tool.
func RegisterAll(reg *registry.Registry) error {
	for _, tool := range All() {
		if err := reg.Register(tool); err != nil {
			return err
		}
	}

	return nil
}

// stringParam reads a string parameter, falling back to def when absent or
// not a string.
func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}

	return def
}

// intParam reads a numeric parameter. JSON numbers decode as float64; typed
// ints are accepted for programmatic callers.
func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
