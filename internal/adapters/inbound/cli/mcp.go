package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/a11ykraft/a11ykraft/internal/adapters/inbound/mcp"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the a11ykraft MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *globalOptions) *cobra.Command {
	var (
		basePath string
		fixes    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a11ykraft MCP server (stdio)",
		Long:  "Start the a11ykraft MCP server using stdio transport. This lets AI assistants audit documents under the base directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := absPath(basePath)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, base)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, base)
			if err != nil {
				return err
			}
			gen, err := newFixGenerator(cfg.FixGenerator, fixes)
			if err != nil {
				return err
			}

			s := mcpadapter.NewA11yKraftMCPServer(mcpadapter.Deps{
				Service:      rt.svc,
				Orchestrator: rt.orch,
				FixGenerator: gen,
				BaseDir:      base,
			})
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&basePath, "path", ".", "Base directory for document paths")
	cmd.Flags().BoolVar(&fixes, "fixes", false, "Generate suggested fixes with the configured provider")

	return cmd
}
