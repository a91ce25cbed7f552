package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment overrides, e.g.
// WINDSURF_MCP_LISTEN_ADDR or WINDSURF_MCP_LOG_LEVEL.
const envPrefix = "WINDSURF_MCP"

// Set via ldflags at build time.
var version = "0.1.0"

// NewRootCmd creates the windsurf-mcp root command with all subcommands
// attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "windsurf-mcp",
		Short: "Tool dispatch server for the Windsurf editor",
		Long: "windsurf-mcp hosts a set of tools behind a WebSocket dispatch server.\n" +
			"Clients connect, receive the tool advertisement, and invoke tools with\n" +
			"correlated request/response pairs over a single connection.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("windsurf-mcp version %s\n", version))

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewCallCmd())
	root.AddCommand(NewToolsCmd())
	root.AddCommand(NewMCPCmd())

	return root
}

// newViper builds a viper instance with environment overrides bound to the
// command's flags.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	return v, nil
}

// newLogger builds the process logger from the persistent logging flags.
// MCP stdio mode must keep stdout clean, so logs always go to stderr.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if v.GetBool("log-json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
