package wire

import (
	"encoding/json"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/errs"
)

// Frame type discriminators.
const (
	// TypeToolsList is the advertisement frame, sent server-to-client exactly
	// once, immediately after connection establishment.
	TypeToolsList = "tools_list"

	// TypeToolRequest carries a tool invocation keyed by request_id.
	TypeToolRequest = "tool_request"

	// TypeToolResponse carries the correlated result or error for a request.
	TypeToolResponse = "tool_response"
)

// Envelope is one discrete frame on the channel: a type discriminator and an
// opaque payload decoded on demand.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParamSpec describes a single tool parameter as advertised on the wire.
type ParamSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolInfo is one advertised tool descriptor. The handler never crosses the
// wire.
type ToolInfo struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Parameters  map[string]ParamSpec `json:"parameters"`
}

// ToolsList is the payload of the advertisement frame.
type ToolsList struct {
	Tools []ToolInfo `json:"tools"`
}

// Request is the payload of a tool_request frame.
type Request struct {
	RequestID  string         `json:"request_id"`
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// Response is the payload of a tool_response frame. Internally the outcome is
// an explicit Success/Failure variant; on the wire exactly one of the
// "result" and "error" keys is present, with the error key marking failure.
type Response struct {
	RequestID string
	Outcome   Outcome
}

// Outcome is the tagged result variant of a tool invocation.
// The zero value is a success carrying a nil result.
type Outcome struct {
	failed  bool
	result  any
	message string
}

// Success creates a successful outcome carrying a result value.
func Success(result any) Outcome {
	return Outcome{result: result}
}

// Failure creates a failed outcome carrying an error message.
func Failure(message string) Outcome {
	return Outcome{failed: true, message: message}
}

// IsError reports whether the outcome is a failure.
func (o Outcome) IsError() bool {
	return o.failed
}

// Result returns the success value, or nil for failures.
func (o Outcome) Result() any {
	return o.result
}

// Message returns the failure message, or "" for successes.
func (o Outcome) Message() string {
	return o.message
}

// MarshalJSON encodes the response with key-presence semantics: failures
// carry "error", successes carry "result".
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Outcome.IsError() {
		return json.Marshal(struct {
			RequestID string `json:"request_id"`
			Error     string `json:"error"`
		}{
			RequestID: r.RequestID,
			Error:     r.Outcome.Message(),
		})
	}

	return json.Marshal(struct {
		RequestID string `json:"request_id"`
		Result    any    `json:"result"`
	}{
		RequestID: r.RequestID,
		Result:    r.Outcome.Result(),
	})
}

// UnmarshalJSON decodes the wire shape back into the tagged variant.
// Presence of the "error" key marks failure, matching the peer encoding.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		RequestID string          `json:"request_id"`
		Result    json.RawMessage `json:"result"`
		Error     *string         `json:"error"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.RequestID = raw.RequestID

	if raw.Error != nil {
		r.Outcome = Failure(*raw.Error)

		return nil
	}

	var result any
	if len(raw.Result) > 0 {
		if err := json.Unmarshal(raw.Result, &result); err != nil {
			return err
		}
	}

	r.Outcome = Success(result)

	return nil
}

// Encode builds a complete frame from a type discriminator and payload.
func Encode(frameType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{Type: frameType, Data: data})
}

// Decode parses a raw frame into an envelope. Malformed frames produce a
// *errs.DecodeError preserving the raw bytes; the caller logs and discards.
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &errs.DecodeError{RawData: string(raw), Err: err}
	}

	return &env, nil
}

// Request decodes the envelope payload as a tool_request.
func (e *Envelope) Request() (*Request, error) {
	var req Request
	if err := json.Unmarshal(e.Data, &req); err != nil {
		return nil, &errs.DecodeError{RawData: string(e.Data), Err: err}
	}

	return &req, nil
}

// Response decodes the envelope payload as a tool_response.
func (e *Envelope) Response() (*Response, error) {
	var resp Response
	if err := json.Unmarshal(e.Data, &resp); err != nil {
		return nil, &errs.DecodeError{RawData: string(e.Data), Err: err}
	}

	return &resp, nil
}

// ToolsList decodes the envelope payload as an advertisement.
func (e *Envelope) ToolsList() (*ToolsList, error) {
	var list ToolsList
	if err := json.Unmarshal(e.Data, &list); err != nil {
		return nil, &errs.DecodeError{RawData: string(e.Data), Err: err}
	}

	return &list, nil
}
