package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/tui"
	"github.com/a11ykraft/a11ykraft/internal/application"
)

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	var (
		level      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <file>",
		Short: "Show which analyzers an audit would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, filepath.Dir(path))
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, filepath.Dir(path))
			if err != nil {
				return err
			}

			rec, err := rt.svc.Recommend(cmd.Context(), application.AuditRequest{Path: path, Level: level})
			if err != nil {
				return fmt.Errorf("recommend failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRecommendation(filepath.Base(path), rec))
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Target conformance level: A, AA or AAA")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
