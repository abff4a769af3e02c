package main

import (
	"flag"
	"fmt"
	"os"

	"econsim/internal/config"
	"econsim/internal/logging"
	"econsim/internal/report"
	"econsim/internal/simulation"
)

// Demo:
// - Build the baseline models
// - Run 180 epochs, printing one progress line per epoch
// - Optionally write the ledger CSV
func main() {
	steps := flag.Int("n", config.DefaultSteps, "Number of epochs to simulate")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	flag.Parse()

	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "n" {
			cfg.Steps = *steps
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	m, err := cfg.BuildModels()
	if err != nil {
		panic(err)
	}

	fmt.Println("initialising...")
	p := report.NewPrinter(os.Stdout)
	engine := simulation.New(cfg.Engine,
		simulation.WithLogger(logging.NewLogger(cfg.LogLevel, os.Stderr)),
		simulation.WithObserver(p.Epoch),
	)
	res, err := engine.Run(cfg.Steps, m)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("done")

	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := simulation.WriteLedgerCSV(f, res.Ledger); err != nil {
			panic(err)
		}
		fmt.Printf("wrote %d rows to %s\n", len(res.Ledger), *outCSV)
	}
}
