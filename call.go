package windsurfmcp

import "context"

// Call dials url, invokes a single tool, and disconnects.
//
// It is a convenience wrapper for one-shot invocations; for repeated calls,
// Dial once and reuse the client.
func Call(ctx context.Context, url, tool string, params map[string]any, opts ...Option) (any, error) {
	client, err := Dial(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Call(ctx, tool, params)
}
