// Package report renders runs for humans: one progress line per epoch and
// scenario summaries. Amounts are printed with thousands separators.
package report

import (
	"io"

	"econsim/internal/analysis"
	"econsim/internal/simulation"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Printer struct {
	w io.Writer
	p *message.Printer
}

// NewPrinter writes English-formatted output to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, p: message.NewPrinter(language.English)}
}

// Epoch prints the progress line for one computed epoch.
func (p *Printer) Epoch(row simulation.LedgerRow) {
	s := row.State
	p.p.Fprintf(p.w, "[%d] tvl=%.2f tvb=%.2f f_claimed=%.2f r_pool=%.2f\n",
		row.Epoch, s.TVL, s.TVB, s.FClaimed, s.RPool)
}

// Ledger prints a progress line for every row.
func (p *Printer) Ledger(rows []simulation.LedgerRow) {
	for _, r := range rows {
		p.Epoch(r)
	}
}

// Summary prints a run digest.
func (p *Printer) Summary(s analysis.Summary) {
	p.p.Fprintf(p.w, "scenario: %s (%d epochs)\n", s.Name, s.Epochs)
	p.p.Fprintf(p.w, "  final:   tvl=%.2f tvb=%.2f tvr=%.2f r_pool=%.2f\n",
		s.Final.TVL, s.Final.TVB, s.Final.TVR, s.Final.RPool)
	p.p.Fprintf(p.w, "  fees:    f_claimed=%.2f f_unclaimed=%.2f gross=%.2f net=%.2f\n",
		s.Final.FClaimed, s.Final.FUnclaimed, s.TotalGrossFees, s.TotalNetFees)
	p.p.Fprintf(p.w, "  tvl:     min=%.2f mean=%.2f max=%.2f\n", s.MinTVL, s.MeanTVL, s.MaxTVL)
	p.p.Fprintf(p.w, "  gap:     p05=%.2f p95=%.2f\n", s.P05Gap, s.P95Gap)
	p.p.Fprintf(p.w, "  rebates: epochs=%d peak_r=%.6f paid=%.2f\n", s.RebateEpochs, s.PeakR, s.TotalRebatePaid)
	p.p.Fprintf(p.w, "  burn fee epochs=%d\n", s.BurnFeeEpochs)
}

// Ranking prints ranked summaries, best first, with the metric value.
func (p *Printer) Ranking(ranked []analysis.Summary, metric string) error {
	if metric == "" {
		metric = analysis.DefaultMetric
	}
	p.p.Fprintf(p.w, "ranked by %s\n", metric)
	for i, s := range ranked {
		v, err := analysis.Metric(s, metric)
		if err != nil {
			return err
		}
		p.p.Fprintf(p.w, "%2d. %-20s %.2f\n", i+1, s.Name, v)
	}
	return nil
}
