// Command windsurf-mcp runs the Windsurf tool dispatch server and its
// companion client commands.
package main

import (
	"os"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
