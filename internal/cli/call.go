package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	windsurfmcp "github.com/rohanbanda-TRT/windsurf-mcp-integration"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/config"
)

// NewCallCmd creates the "call" subcommand.
func NewCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a tool on a running server",
		Args:  cobra.ExactArgs(1),
		RunE:  runCall,
	}

	cmd.Flags().String("server", "ws://localhost:8089/ws", "Server WebSocket URL")
	cmd.Flags().String("params", "{}", "Tool parameters as a JSON object")
	cmd.Flags().Duration("timeout", config.DefaultCallTimeout, "Per-call response timeout")

	return cmd
}

func runCall(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	var params map[string]any
	if err := json.Unmarshal([]byte(v.GetString("params")), &params); err != nil {
		return fmt.Errorf("parsing --params: %w", err)
	}

	result, err := windsurfmcp.Call(cmd.Context(), v.GetString("server"), args[0], params,
		windsurfmcp.WithLogger(log),
		windsurfmcp.WithCallTimeout(v.GetDuration("timeout")),
	)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	return nil
}
