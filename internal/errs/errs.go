package errs

import (
	"errors"
	"fmt"
	"time"
)

// IntegrationError is the base interface for all errors produced by this module.
type IntegrationError interface {
	error
	IsIntegrationError() bool
}

// Compile-time verification that all error types implement IntegrationError.
var (
	_ IntegrationError = (*NotFoundError)(nil)
	_ IntegrationError = (*ValidationError)(nil)
	_ IntegrationError = (*ToolExecutionError)(nil)
	_ IntegrationError = (*TimeoutError)(nil)
	_ IntegrationError = (*ConnectionClosedError)(nil)
	_ IntegrationError = (*DecodeError)(nil)
	_ IntegrationError = (*DuplicateToolError)(nil)
	_ IntegrationError = (*UnknownToolError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrRegistryFrozen indicates a registration was attempted after Freeze().
	ErrRegistryFrozen = errors.New("registry frozen: tools must be registered before serving starts")

	// ErrClientNotConnected indicates the client has not completed its handshake.
	ErrClientNotConnected = errors.New("client not connected")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, dial a new one")

	// ErrSessionClosed indicates the session has stopped accepting requests.
	ErrSessionClosed = errors.New("session closed")

	// ErrAdvertisementExpected indicates the first frame after connecting was
	// not the tools_list advertisement.
	ErrAdvertisementExpected = errors.New("expected tools_list as the first frame")

	// ErrToolFailed wraps a failure message reported by the remote server.
	ErrToolFailed = errors.New("tool failed")
)

// NotFoundError indicates a tool name is not present in the registry.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Tool)
}

// IsIntegrationError implements IntegrationError.
func (e *NotFoundError) IsIntegrationError() bool { return true }

// ValidationError indicates a request was structurally invalid, such as a
// tool_request frame with no tool name.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsIntegrationError implements IntegrationError.
func (e *ValidationError) IsIntegrationError() bool { return true }

// ToolExecutionError indicates a tool handler failed or panicked during
// execution. The underlying message is preserved; stack traces never cross
// the wire.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("Error executing tool: %v", e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// IsIntegrationError implements IntegrationError.
func (e *ToolExecutionError) IsIntegrationError() bool { return true }

// TimeoutError indicates no response arrived within the call deadline.
type TimeoutError struct {
	Tool    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for response from tool %q after %s", e.Tool, e.Timeout)
}

// IsIntegrationError implements IntegrationError.
func (e *TimeoutError) IsIntegrationError() bool { return true }

// ConnectionClosedError indicates the channel dropped while requests were
// outstanding. Every pending call on the session resolves with this error.
type ConnectionClosedError struct {
	Err error
}

func (e *ConnectionClosedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection closed: %v", e.Err)
	}

	return "connection closed"
}

func (e *ConnectionClosedError) Unwrap() error {
	return e.Err
}

// IsIntegrationError implements IntegrationError.
func (e *ConnectionClosedError) IsIntegrationError() bool { return true }

// DecodeError indicates a frame could not be decoded as JSON.
// This error preserves the original raw data that failed to parse.
// Decode failures are session-local: the frame is discarded and the
// session survives.
type DecodeError struct {
	RawData string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsIntegrationError implements IntegrationError.
func (e *DecodeError) IsIntegrationError() bool { return true }

// DuplicateToolError indicates a tool name was registered twice.
// Registration fails fast so wiring mistakes surface at startup.
type DuplicateToolError struct {
	Tool string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Tool)
}

// IsIntegrationError implements IntegrationError.
func (e *DuplicateToolError) IsIntegrationError() bool { return true }

// UnknownToolError indicates a client-side call named a tool absent from the
// server's advertisement.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %q not offered by server", e.Tool)
}

// IsIntegrationError implements IntegrationError.
func (e *UnknownToolError) IsIntegrationError() bool { return true }
