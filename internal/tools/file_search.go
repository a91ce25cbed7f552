package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// FileSearch returns the file_search tool: glob matching under a directory.
func FileSearch() *registry.Tool {
	return &registry.Tool{
		Name:        "file_search",
		Description: "Search for files in a directory",
		Parameters: map[string]wire.ParamSpec{
			"directory": {Type: "string", Description: "Directory to search in"},
			"pattern":   {Type: "string", Description: "Search pattern (glob format)"},
		},
		Handler: fileSearchHandler,
	}
}

func fileSearchHandler(_ context.Context, params map[string]any) (any, error) {
	directory := stringParam(params, "directory", ".")
	pattern := stringParam(params, "pattern", "*")

	if _, err := os.Stat(directory); err != nil {
		return nil, fmt.Errorf("directory '%s' does not exist", directory)
	}

	matches, err := filepath.Glob(filepath.Join(directory, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}

	files := make([]map[string]any, 0, len(matches))

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			// The entry vanished between glob and stat; skip it.
			continue
		}

		entry := map[string]any{
			"path":     match,
			"name":     info.Name(),
			"is_dir":   info.IsDir(),
			"modified": info.ModTime().Unix(),
		}

		if info.IsDir() {
			entry["size"] = nil
		} else {
			entry["size"] = info.Size()
		}

		files = append(files, entry)
	}

	return map[string]any{
		"files": files,
		"count": len(files),
	}, nil
}
