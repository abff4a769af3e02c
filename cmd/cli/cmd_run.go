package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"econsim/internal/analysis"
	"econsim/internal/config"
	"econsim/internal/logging"
	"econsim/internal/model"
	"econsim/internal/report"
	"econsim/internal/simulation"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scenario",
		Long: `Run one scenario and print its trajectory.

Without --config the baseline scenario runs for 180 epochs. ECONSIM_STEPS,
ECONSIM_LOG_LEVEL and ECONSIM_CLAIM_RATE override the scenario file; flags
override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			format, _ := cmd.Flags().GetString("format")
			quiet, _ := cmd.Flags().GetBool("quiet")
			outPath, _ := cmd.Flags().GetString("out")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				format = "json"
			}

			switch format {
			case "text", "csv", "json":
			default:
				return fmt.Errorf("unknown format %q (want text, csv or json)", format)
			}

			cfg, err := loadScenario(cmd, cfgPath)
			if err != nil {
				return err
			}
			m, err := cfg.BuildModels()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			opts := []simulation.Option{simulation.WithLogger(newLogger(cmd, cfg))}
			var p *report.Printer
			if format == "text" {
				p = report.NewPrinter(out)
				if !quiet {
					fmt.Fprintln(out, "initialising...")
					opts = append(opts, simulation.WithObserver(p.Epoch))
				}
			}

			res, err := simulation.New(cfg.Engine, opts...).Run(cfg.Steps, m)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			switch format {
			case "csv":
				return simulation.WriteLedgerCSV(out, res.Ledger)
			case "json":
				return writeRunJSON(out, cfg, res)
			}
			if !quiet {
				fmt.Fprintln(out, "done")
			}
			p.Summary(analysis.Summarize(cfg.Name, res))
			return nil
		},
	}

	cmd.Flags().String("config", "", "Path to a YAML scenario (default: baseline)")
	cmd.Flags().Int("steps", config.DefaultSteps, "Number of epochs to simulate")
	cmd.Flags().String("format", "text", "Output format: text, csv or json")
	cmd.Flags().Bool("quiet", false, "Suppress per-epoch progress lines")
	cmd.Flags().String("out", "", "Write output to this file instead of stdout")
	return cmd
}

// loadScenario loads the scenario file and applies flag overrides.
func loadScenario(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps, _ = cmd.Flags().GetInt("steps")
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "(baseline)"
	}
	return path
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
}

type runOutput struct {
	Scenario *config.Config         `json:"scenario"`
	Summary  analysis.Summary       `json:"summary"`
	States   []model.State          `json:"states"`
	Ledger   []simulation.LedgerRow `json:"ledger"`
}

func writeRunJSON(w io.Writer, cfg *config.Config, res *simulation.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runOutput{
		Scenario: cfg,
		Summary:  analysis.Summarize(cfg.Name, res),
		States:   res.States(),
		Ledger:   res.Ledger,
	})
}
