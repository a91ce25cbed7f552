// Package dispatch resolves tool names against the registry and invokes
// handlers with error normalization.
//
// The dispatcher is pure forwarding: side effects live entirely inside
// handlers, and every handler failure (including panics) is converted to a
// *errs.ToolExecutionError instead of propagating as a crash. A request gets
// exactly one invocation attempt; there are no retries at this layer.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
)

// Dispatcher invokes registered tool handlers by name.
type Dispatcher struct {
	log *slog.Logger
	reg *registry.Registry
}

// New creates a dispatcher over a registry.
func New(log *slog.Logger, reg *registry.Registry) *Dispatcher {
	return &Dispatcher{
		log: log.With("component", "dispatch"),
		reg: reg,
	}
}

// Invoke resolves name and runs its handler with the given parameters.
//
// Returns *errs.NotFoundError for an unknown name and
// *errs.ToolExecutionError when the handler fails or panics.
func (d *Dispatcher) Invoke(ctx context.Context, name string, params map[string]any) (result any, err error) {
	tool, err := d.reg.Lookup(name)
	if err != nil {
		d.log.Warn("Tool not found", "tool", name)

		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Tool handler panicked", "tool", name, "panic", r)

			result = nil
			err = &errs.ToolExecutionError{Tool: name, Err: fmt.Errorf("handler panic: %v", r)}
		}
	}()

	d.log.Debug("Invoking tool", "tool", name)

	result, err = tool.Handler(ctx, params)
	if err != nil {
		d.log.Warn("Tool execution failed", "tool", name, "error", err)

		return nil, &errs.ToolExecutionError{Tool: name, Err: err}
	}

	d.log.Debug("Tool executed successfully", "tool", name)

	return result, nil
}
