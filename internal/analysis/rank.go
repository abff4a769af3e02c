package analysis

import (
	"fmt"
	"sort"
)

// DefaultMetric is what scenarios are ranked by when no metric is given.
const DefaultMetric = "final_tvl"

var metrics = map[string]func(Summary) float64{
	"final_tvl":         func(s Summary) float64 { return s.Final.TVL },
	"final_tvb":         func(s Summary) float64 { return s.Final.TVB },
	"final_f_claimed":   func(s Summary) float64 { return s.Final.FClaimed },
	"final_r_pool":      func(s Summary) float64 { return s.Final.RPool },
	"mean_tvl":          func(s Summary) float64 { return s.MeanTVL },
	"peak_r":            func(s Summary) float64 { return s.PeakR },
	"total_gross_fees":  func(s Summary) float64 { return s.TotalGrossFees },
	"total_net_fees":    func(s Summary) float64 { return s.TotalNetFees },
	"total_rebate_paid": func(s Summary) float64 { return s.TotalRebatePaid },
	"total_claimed":     func(s Summary) float64 { return s.TotalClaimed },
}

// Metrics lists the names RankBy accepts, sorted.
func Metrics() []string {
	out := make([]string, 0, len(metrics))
	for k := range metrics {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Metric reads a named metric from a summary.
func Metric(s Summary, name string) (float64, error) {
	fn, ok := metrics[name]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %q", name)
	}
	return fn(s), nil
}

// RankBy sorts summaries descending by metric. Ties keep input order.
// The input slice is not modified.
func RankBy(summaries []Summary, metric string) ([]Summary, error) {
	if metric == "" {
		metric = DefaultMetric
	}
	fn, ok := metrics[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %q", metric)
	}
	out := make([]Summary, len(summaries))
	copy(out, summaries)
	sort.SliceStable(out, func(i, j int) bool {
		return fn(out[i]) > fn(out[j])
	})
	return out, nil
}
