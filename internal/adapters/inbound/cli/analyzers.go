package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/tui"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

func newAnalyzersCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyzers",
		Short: "List analyzers and the success criteria they check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, ".")
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, ".")
			if err != nil {
				return err
			}

			infos := rt.orch.Analyzers()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"analyzers": infos,
					"catalog":   domain.RuleCatalogVersion,
					"rules":     domain.RuleCatalog(),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderAnalyzers(infos, domain.RuleCatalog()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
