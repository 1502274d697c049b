package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/config"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		level string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a .a11ykraft.yaml configuration file",
		Long:  "Create a .a11ykraft.yaml with defaults for the documents in a directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			dir, err := absPath(path)
			if err != nil {
				return err
			}

			dest := filepath.Join(dir, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			l, err := domain.ParseLevel(level)
			if err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(generateConfig(l)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "AA", "Target conformance level (A, AA, AAA)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .a11ykraft.yaml")

	return cmd
}

func generateConfig(level domain.Level) string {
	var b strings.Builder
	b.WriteString("# a11ykraft configuration\n")
	fmt.Fprintf(&b, "level: %s\n", level)
	b.WriteString("# language: en-US\n")
	b.WriteString("\n# Analyzers to run; empty runs the recommended set.\n")
	fmt.Fprintf(&b, "# analyzers: [%s]\n", strings.Join(domain.ValidAnalyzers, ", "))
	b.WriteString("skip: []\n")
	b.WriteString("parallelism: 0\n")
	b.WriteString("min_score: 0\n")
	b.WriteString("history: true\n")
	b.WriteString("cache: true\n")
	b.WriteString("\nfix_generator:\n")
	b.WriteString("  provider: none\n")
	fmt.Fprintf(&b, "  model: %s\n", domain.DefaultModel)
	fmt.Fprintf(&b, "  api_key_env: %s\n", domain.DefaultAPIKeyEnv)
	fmt.Fprintf(&b, "  timeout: %s\n", domain.DefaultFixTimeout)
	fmt.Fprintf(&b, "  max_fixes: %d\n", domain.DefaultMaxFixes)
	return b.String()
}
