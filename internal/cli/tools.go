package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	windsurfmcp "github.com/rohanbanda-TRT/windsurf-mcp-integration"
)

// NewToolsCmd creates the "tools" subcommand.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools a running server advertises",
		RunE:  runTools,
	}

	cmd.Flags().String("server", "ws://localhost:8089/ws", "Server WebSocket URL")

	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	client, err := windsurfmcp.Dial(cmd.Context(), v.GetString("server"),
		windsurfmcp.WithLogger(log))
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()

	for _, tool := range client.Tools() {
		fmt.Fprintf(out, "%s\t%s\n", tool.Name, tool.Description)

		names := make([]string, 0, len(tool.Parameters))
		for name := range tool.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			spec := tool.Parameters[name]
			fmt.Fprintf(out, "  %s (%s): %s\n", name, spec.Type, spec.Description)
		}
	}

	return nil
}
