package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"econsim/internal/analysis"
	"econsim/internal/report"
	"econsim/internal/simulation"

	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare --config a.yaml --config b.yaml",
		Short: "Run several scenarios and rank them",
		Long: `Run each scenario and print the summaries ranked by a metric, best first.

Scenarios with the same name are told apart by file name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, _ := cmd.Flags().GetStringArray("config")
			metric, _ := cmd.Flags().GetString("by")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if len(paths) == 0 {
				return fmt.Errorf("at least one --config is required")
			}
			if _, err := analysis.Metric(analysis.Summary{}, metric); err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(analysis.Metrics(), ", "))
			}

			summaries := make([]analysis.Summary, 0, len(paths))
			seen := make(map[string]bool, len(paths))
			for _, path := range paths {
				cfg, err := loadScenario(cmd, path)
				if err != nil {
					return err
				}
				if seen[cfg.Name] {
					cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
				seen[cfg.Name] = true

				m, err := cfg.BuildModels()
				if err != nil {
					return err
				}
				res, err := simulation.New(cfg.Engine, simulation.WithLogger(newLogger(cmd, cfg))).Run(cfg.Steps, m)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", cfg.Name, err)
				}
				summaries = append(summaries, analysis.Summarize(cfg.Name, res))
			}

			ranked, err := analysis.RankBy(summaries, metric)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"ranked_by": metric,
					"summaries": ranked,
				})
			}

			p := report.NewPrinter(out)
			if err := p.Ranking(ranked, metric); err != nil {
				return err
			}
			for _, s := range ranked {
				fmt.Fprintln(out)
				p.Summary(s)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("config", nil, "Path to a YAML scenario (repeatable)")
	cmd.Flags().String("by", analysis.DefaultMetric, "Metric to rank by")
	cmd.Flags().Int("steps", 0, "Override the number of epochs for every scenario")
	return cmd
}
