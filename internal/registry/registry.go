package registry

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// Handler is the capability invoked when a tool is called. It receives the
// raw parameter bundle and returns a JSON-encodable result or an error.
//
// The handler reference is stored directly in the descriptor at registration
// time; no name-based indirection happens at invocation time.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Tool is one registered tool descriptor. Immutable after registration; it
// lives for the process lifetime and is never removed.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]wire.ParamSpec
	Handler     Handler
}

// Info returns the wire descriptor for the advertisement, with the handler
// omitted.
func (t *Tool) Info() wire.ToolInfo {
	return wire.ToolInfo{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Registry maps tool names to descriptors. It is populated once at startup,
// frozen before the first session is accepted, and read-only thereafter.
// Duplicate registration fails fast rather than silently overwriting.
type Registry struct {
	log *slog.Logger

	mu     sync.RWMutex
	tools  map[string]*Tool
	order  []string
	frozen bool
}

// New creates an empty registry.
func New(log *slog.Logger) *Registry {
	return &Registry{
		log:   log.With("component", "registry"),
		tools: make(map[string]*Tool, 8),
	}
}

// Register adds a tool descriptor.
//
// Returns *errs.DuplicateToolError if the name is already present and
// errs.ErrRegistryFrozen after Freeze().
func (r *Registry) Register(tool *Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errs.ErrRegistryFrozen
	}

	if _, exists := r.tools[tool.Name]; exists {
		return &errs.DuplicateToolError{Tool: tool.Name}
	}

	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)

	r.log.Debug("Registered tool", "tool", tool.Name)

	return nil
}

// Freeze marks the registry read-only. Subsequent Register calls fail with
// errs.ErrRegistryFrozen. Freeze is idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.frozen {
		r.frozen = true
		r.log.Info("Registry frozen", "tools", len(r.tools))
	}
}

// Lookup returns the descriptor for a name, or *errs.NotFoundError.
func (r *Registry) Lookup(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, &errs.NotFoundError{Tool: name}
	}

	return tool, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}

// Tools returns an iterator over descriptors in registration order.
// The sequence is finite and restartable.
func (r *Registry) Tools() iter.Seq[*Tool] {
	return func(yield func(*Tool) bool) {
		r.mu.RLock()
		order := make([]string, len(r.order))
		copy(order, r.order)
		r.mu.RUnlock()

		for _, name := range order {
			r.mu.RLock()
			tool := r.tools[name]
			r.mu.RUnlock()

			if !yield(tool) {
				return
			}
		}
	}
}

// Advertisement returns the wire descriptors for all tools in registration
// order. This backs the tools_list frame and the HTTP tool listing.
func (r *Registry) Advertisement() []wire.ToolInfo {
	infos := make([]wire.ToolInfo, 0, r.Len())
	for tool := range r.Tools() {
		infos = append(infos, tool.Info())
	}

	return infos
}
