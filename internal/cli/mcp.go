package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/config"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/dispatch"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/mcp"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/tools"
)

// NewMCPCmd creates the "mcp" subcommand.
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tool registry over MCP stdio",
		Long: "Serves the built-in tools as a Model Context Protocol server on\n" +
			"stdin/stdout, for editors that launch MCP servers as subprocesses.",
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	reg := registry.New(log)
	if err := tools.RegisterAll(reg); err != nil {
		return err
	}
	reg.Freeze()

	bridge := mcp.NewBridge(log, reg, dispatch.New(log, reg),
		config.DefaultServerName, config.DefaultServerVersion)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return bridge.Run(ctx)
}
