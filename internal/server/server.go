package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/config"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/dispatch"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/protocol"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wsconn"
)

// Server is the outward-facing front end: it serves the WebSocket endpoint
// for persistent sessions plus the synchronous HTTP surface, and tracks the
// active-session set.
//
// The registry is frozen by New; no tool can be registered once the server
// exists.
type Server struct {
	log        *slog.Logger
	reg        *registry.Registry
	dispatcher *dispatch.Dispatcher
	opts       *config.Options
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*protocol.Session
	httpSrv  *http.Server
}

// New creates a server over a populated registry and freezes it.
func New(reg *registry.Registry, opts *config.Options) *Server {
	opts.ApplyDefaults()
	reg.Freeze()

	log := opts.Logger

	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		// Local tool server; the original service allowed any origin.
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Server{
		log:        log.With("component", "server"),
		reg:        reg,
		dispatcher: dispatch.New(log, reg),
		opts:       opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
		sessions: make(map[string]*protocol.Session, 4),
	}
}

// Handler returns the HTTP handler serving all endpoints:
//
//	GET  /        service info
//	GET  /tools   tool descriptors in registration order
//	POST /tools/{name}  synchronous one-shot invocation
//	GET  /ws      WebSocket upgrade for a persistent session
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /tools/{name}", s.handleExecute)
	mux.HandleFunc("GET /ws", s.handleWS)

	return mux
}

// ListenAndServe serves on addr until ctx is cancelled or Close is called.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("Server listening", "addr", addr, "tools", s.reg.Len())

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Close shuts down the HTTP listener and tears down every active session.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.httpSrv
	sessions := make([]*protocol.Session, 0, len(s.sessions))

	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}

	s.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.Close()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}

	return nil
}

// SessionCount returns the number of active sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        s.opts.ServerName,
		"status":      "running",
		"version":     s.opts.ServerVersion,
		"tools_count": s.reg.Len(),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": s.reg.Advertisement(),
	})
}

// handleExecute is the synchronous one-shot surface: one tool call per
// request, no session, no correlation.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail": "Invalid JSON body",
		})

		return
	}

	result, err := s.dispatcher.Invoke(r.Context(), name, params)
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"detail": fmt.Sprintf("Tool '%s' not found", name),
			})

			return
		}

		s.log.Error("Synchronous tool execution failed", "tool", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"detail": err.Error(),
		})

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"result": result,
	})
}

// handleWS upgrades the connection and runs one session to completion.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "error", err)

		return
	}

	conn := wsconn.New(s.log, ws)
	sess := protocol.NewSession(s.log, conn, s.dispatcher, s.reg.Advertisement(), s.opts.MaxInFlight)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID())
		s.mu.Unlock()

		_ = conn.Close()
	}()

	if err := sess.Serve(r.Context()); err != nil {
		s.log.Warn("Session ended with error", "session_id", sess.ID(), "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}
