package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/export"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/history"
	"github.com/a11ykraft/a11ykraft/internal/adapters/outbound/tui"
	"github.com/a11ykraft/a11ykraft/internal/application"
	"github.com/a11ykraft/a11ykraft/internal/domain"
)

const formatTUI = "tui"

func newAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		level       string
		lang        string
		analyzers   []string
		format      string
		output      string
		ciMode      bool
		minScore    int
		badge       bool
		showHistory bool
		fixes       bool
		parallel    int
		hasImages   bool
		hasTables   bool
		hasLinks    bool
	)

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Audit a document for accessibility",
		Long:  "Extract a document, run the recommended analyzers and report a compliance score with findings and suggested fixes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}

			if format != formatTUI {
				if format, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			dir := filepath.Dir(path)
			cfg, err := loadConfig(opts, dir)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("parallel") {
				cfg.Parallelism = parallel
			}
			if !flags.Changed("min") {
				minScore = cfg.MinScore
			}

			rt, err := newRuntime(cfg, dir)
			if err != nil {
				return err
			}

			var gen domain.FixGenerator
			if fixes || cfg.FixGenerator.Enabled() {
				if gen, err = newFixGenerator(cfg.FixGenerator, fixes); err != nil {
					return err
				}
			}

			req := application.AuditRequest{
				Path:          path,
				Level:         level,
				Language:      lang,
				Analyzers:     analyzers,
				FixGenerator:  gen,
				RecordHistory: true,
			}
			if flags.Changed("has-images") {
				req.HasImages = &hasImages
			}
			if flags.Changed("has-tables") {
				req.HasTables = &hasTables
			}
			if flags.Changed("has-links") {
				req.HasLinks = &hasLinks
			}

			out, err := rt.svc.Audit(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}
			report := out.Report

			if showHistory {
				entries, err := rt.hist.Load(rt.histDir)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(history.ForDocument(entries, report.Document.Filename)))
				return nil
			}

			switch {
			case badge:
				renderBadge(cmd, report.ExecutiveSummary.OverallScore)
			default:
				if err := writeReport(cmd, report, format, output); err != nil {
					return err
				}
			}

			if ciMode && report.ExecutiveSummary.OverallScore < minScore {
				return fmt.Errorf("score %d is below minimum %d", report.ExecutiveSummary.OverallScore, minScore)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&level, "level", "", "Target conformance level: A, AA or AAA (default from config, else AA)")
	f.StringVar(&lang, "lang", "", "Declared document language, e.g. en-US")
	f.StringSliceVar(&analyzers, "analyzers", nil, "Analyzers to run (default: recommended set)")
	f.StringVar(&format, "format", formatTUI, "Output format: tui, json, html, markdown, csv")
	f.StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	f.BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if below --min")
	f.IntVar(&minScore, "min", 0, "Minimum score for CI mode (default from config)")
	f.BoolVar(&badge, "badge", false, "Output shields.io badge URL")
	f.BoolVar(&showHistory, "history", false, "Show audit history for the document")
	f.BoolVar(&fixes, "fixes", false, "Generate suggested fixes with the configured provider")
	f.IntVar(&parallel, "parallel", 0, "Run up to n analyzers concurrently")
	f.BoolVar(&hasImages, "has-images", false, "Declare whether the document contains images")
	f.BoolVar(&hasTables, "has-tables", false, "Declare whether the document contains tables")
	f.BoolVar(&hasLinks, "has-links", false, "Declare whether the document contains links")

	return cmd
}

func writeReport(cmd *cobra.Command, report domain.AuditReport, format, output string) error {
	var data []byte
	if format == formatTUI {
		data = []byte(tui.RenderAudit(report))
	} else {
		var err error
		if data, err = export.Export(report, format); err != nil {
			return err
		}
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
	return nil
}

func renderBadge(cmd *cobra.Command, score int) {
	color := domain.BadgeColor(score)
	url := fmt.Sprintf("https://img.shields.io/badge/a11y-%d%%2F100-%s", score, color)
	fmt.Fprintln(cmd.OutOrStdout(), url)
}
