package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

const webRequestTimeout = 30 * time.Second

// WebRequest returns the web_request tool: outbound HTTP calls with a
// bounded timeout.
func WebRequest() *registry.Tool {
	client := &http.Client{Timeout: webRequestTimeout}

	return &registry.Tool{
		Name:        "web_request",
		Description: "Make HTTP requests to external APIs",
		Parameters: map[string]wire.ParamSpec{
			"url":     {Type: "string", Description: "URL to send the request to"},
			"method":  {Type: "string", Description: "HTTP method (GET, POST, PUT, DELETE)"},
			"headers": {Type: "object", Description: "HTTP headers to include"},
			"data":    {Type: "object", Description: "Data to send in the request body"},
		},
		Handler: webRequestHandler(client),
	}
}

func webRequestHandler(client *http.Client) registry.Handler {
	return func(ctx context.Context, params map[string]any) (any, error) {
		url := stringParam(params, "url", "")
		if url == "" {
			return nil, fmt.Errorf("no URL provided")
		}

		method := strings.ToUpper(stringParam(params, "method", "GET"))

		switch method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			return nil, fmt.Errorf("unsupported HTTP method: %s", method)
		}

		var body io.Reader

		if data, ok := params["data"]; ok && method != http.MethodGet && method != http.MethodDelete {
			encoded, err := json.Marshal(data)
			if err != nil {
				return nil, fmt.Errorf("encode request body: %w", err)
			}

			body = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		if headers, ok := params["headers"].(map[string]any); ok {
			for key, value := range headers {
				if v, ok := value.(string); ok {
					req.Header.Set(key, v)
				}
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		headers := make(map[string]string, len(resp.Header))
		for key := range resp.Header {
			headers[key] = resp.Header.Get(key)
		}

		result := map[string]any{
			"status_code": resp.StatusCode,
			"headers":     headers,
		}

		// Prefer structured JSON, fall back to text.
		var decoded any
		if err := json.Unmarshal(payload, &decoded); err == nil {
			result["json"] = decoded
		} else {
			result["text"] = string(payload)
		}

		return result, nil
	}
}
