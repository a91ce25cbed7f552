package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/config"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/server"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/tools"
)

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the WebSocket tool dispatch server",
		RunE:  runServe,
	}

	cmd.Flags().String("listen-addr", ":8089", "Listen address")
	cmd.Flags().Int64("max-in-flight", config.DefaultMaxInFlight, "Max concurrent tool executions per session")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	reg := registry.New(log)
	if err := tools.RegisterAll(reg); err != nil {
		return err
	}

	opts := &config.Options{
		Logger:      log,
		MaxInFlight: v.GetInt64("max-in-flight"),
	}

	srv := server.New(reg, opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := v.GetString("listen-addr")
	log.Info("Starting server", "addr", addr, "tools", reg.Len())

	return srv.ListenAndServe(ctx, addr)
}
