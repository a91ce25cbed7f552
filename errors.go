package windsurfmcp

import "github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"

// Re-export error types from the internal package.

// IntegrationError is the base interface implemented by all typed errors
// returned by this package.
type IntegrationError = errs.IntegrationError

// NotFoundError indicates a tool name is not in the registry.
type NotFoundError = errs.NotFoundError

// ValidationError indicates a malformed request, such as a missing tool name.
type ValidationError = errs.ValidationError

// ToolExecutionError indicates a tool handler returned an error or panicked.
type ToolExecutionError = errs.ToolExecutionError

// TimeoutError indicates a call's response did not arrive within the
// configured call timeout.
type TimeoutError = errs.TimeoutError

// ConnectionClosedError indicates the connection went away while calls were
// outstanding; every waiting caller receives it.
type ConnectionClosedError = errs.ConnectionClosedError

// DuplicateToolError indicates two tools were registered under one name.
type DuplicateToolError = errs.DuplicateToolError

// UnknownToolError indicates a call named a tool absent from the server's
// advertisement.
type UnknownToolError = errs.UnknownToolError

// Re-export sentinel errors from the internal package.
var (
	// ErrClientNotConnected indicates Call was used before Connect finished.
	ErrClientNotConnected = errs.ErrClientNotConnected

	// ErrClientClosed indicates the client has been closed and cannot be
	// reused.
	ErrClientClosed = errs.ErrClientClosed

	// ErrToolFailed wraps failure messages reported by the remote server.
	ErrToolFailed = errs.ErrToolFailed
)
