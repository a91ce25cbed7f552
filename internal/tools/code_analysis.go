package tools

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

// CodeAnalysis returns the code_analysis tool: line-level metrics for a file
// or aggregate statistics for a directory.
func CodeAnalysis() *registry.Tool {
	return &registry.Tool{
		Name:        "code_analysis",
		Description: "Analyze code in a file or directory",
		Parameters: map[string]wire.ParamSpec{
			"path":          {Type: "string", Description: "Path to file or directory to analyze"},
			"analysis_type": {Type: "string", Description: "Type of analysis to perform (syntax, complexity, dependencies)"},
		},
		Handler: codeAnalysisHandler,
	}
}

var commentPrefixes = []string{"#", "//", "/*", "*", "*/"}

func codeAnalysisHandler(_ context.Context, params map[string]any) (any, error) {
	path := stringParam(params, "path", "")
	analysisType := stringParam(params, "analysis_type", "syntax")

	if path == "" {
		return nil, fmt.Errorf("no path provided")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path '%s' does not exist", path)
	}

	if info.IsDir() {
		return analyzeDirectory(path)
	}

	return analyzeFile(path, info, analysisType)
}

func analyzeFile(path string, info os.FileInfo, analysisType string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error analyzing file: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	extension := strings.ToLower(filepath.Ext(path))

	result := map[string]any{
		"file":      path,
		"size":      info.Size(),
		"lines":     len(lines),
		"extension": extension,
	}

	switch analysisType {
	case "syntax":
		var empty, comment, code int

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)

			switch {
			case trimmed == "":
				empty++
			case isComment(trimmed):
				comment++
			default:
				code++
			}
		}

		result["empty_lines"] = empty
		result["comment_lines"] = comment
		result["code_lines"] = code

	case "complexity":
		var total, maxLen, functions int

		for _, line := range lines {
			total += len(line)
			maxLen = max(maxLen, len(line))

			if strings.Contains(line, "def ") || strings.Contains(line, "function ") ||
				strings.Contains(line, "func ") {
				functions++
			}
		}

		divisor := max(len(lines), 1)
		result["avg_line_length"] = float64(total) / float64(divisor)
		result["max_line_length"] = maxLen
		result["function_count"] = functions

	case "dependencies":
		if imports := extractImports(lines, extension); imports != nil {
			result["imports"] = imports
		}
	}

	return result, nil
}

// extractImports pulls import lines for the languages the analyzer knows.
func extractImports(lines []string, extension string) []string {
	switch extension {
	case ".py":
		var imports []string

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
				imports = append(imports, trimmed)
			}
		}

		return imports

	case ".js", ".ts", ".jsx", ".tsx":
		var imports []string

		for _, line := range lines {
			if strings.Contains(line, "import ") || strings.Contains(line, "require(") {
				imports = append(imports, strings.TrimSpace(line))
			}
		}

		return imports

	case ".go":
		var (
			imports []string
			inBlock bool
		)

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)

			switch {
			case trimmed == "import (":
				inBlock = true
			case inBlock && trimmed == ")":
				inBlock = false
			case inBlock && trimmed != "":
				imports = append(imports, trimmed)
			case strings.HasPrefix(trimmed, "import "):
				imports = append(imports, strings.TrimPrefix(trimmed, "import "))
			}
		}

		return imports

	default:
		return nil
	}
}

func isComment(trimmed string) bool {
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}

	return false
}

func analyzeDirectory(path string) (any, error) {
	fileTypes := make(map[string]int)

	var (
		fileCount int
		totalSize int64
	)

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			//nolint:nilerr // Unreadable entries are skipped, not fatal
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		fileCount++
		totalSize += info.Size()
		fileTypes[strings.ToLower(filepath.Ext(d.Name()))]++

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error analyzing directory: %w", err)
	}

	return map[string]any{
		"directory":  path,
		"file_count": fileCount,
		"total_size": totalSize,
		"file_types": fileTypes,
	}, nil
}
