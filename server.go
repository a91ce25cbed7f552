package windsurfmcp

import (
	"context"
	"net/http"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/server"
)

// Server hosts a tool registry over WebSocket and HTTP.
//
// The tool set is fixed at construction. Each WebSocket connection becomes an
// independent session that first receives the tool advertisement and then
// dispatches requests concurrently.
type Server struct {
	srv *server.Server
}

// NewServer creates a server hosting the given tools.
// Registration fails fast with a DuplicateToolError if two tools share a name.
func NewServer(tools []*Tool, opts ...Option) (*Server, error) {
	options := applyOptions(opts)

	reg := registry.New(options.Logger)
	for _, tool := range tools {
		if err := reg.Register(tool); err != nil {
			return nil, err
		}
	}

	return &Server{srv: server.New(reg, options)}, nil
}

// Handler returns the HTTP handler serving the WebSocket endpoint at /ws and
// the plain HTTP endpoints. Use it to mount the server on an existing mux or
// an httptest server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return s.srv.ListenAndServe(ctx, addr)
}

// Close shuts the server down and terminates all live sessions.
func (s *Server) Close() error {
	return s.srv.Close()
}

// SessionCount reports the number of live WebSocket sessions.
func (s *Server) SessionCount() int {
	return s.srv.SessionCount()
}
