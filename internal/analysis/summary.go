package analysis

import (
	"math"
	"sort"

	"econsim/internal/model"
	"econsim/internal/simulation"
)

// Summary is a run-level digest you can use for ranking scenarios.
// Statistics cover computed epochs only; the genesis state is excluded.
type Summary struct {
	Name   string `json:"name"`
	Epochs int    `json:"epochs"`

	Final model.State `json:"final"`

	MinTVL  float64 `json:"min_tvl"`
	MaxTVL  float64 `json:"max_tvl"`
	MeanTVL float64 `json:"mean_tvl"`
	P05Gap  float64 `json:"p05_gap"`
	P95Gap  float64 `json:"p95_gap"`
	PeakR   float64 `json:"peak_r"`

	RebateEpochs  int `json:"rebate_epochs"`
	BurnFeeEpochs int `json:"burn_fee_epochs"`

	TotalGrossFees  float64 `json:"total_gross_fees"`
	TotalNetFees    float64 `json:"total_net_fees"`
	TotalRebatePaid float64 `json:"total_rebate_paid"`
	TotalClaimed    float64 `json:"total_claimed"`
}

// Summarize digests a completed run.
func Summarize(name string, res *simulation.Result) Summary {
	s := Summary{Name: name}
	if res == nil {
		return s
	}
	s.Final = res.Final()
	s.Epochs = len(res.Ledger)
	if s.Epochs == 0 {
		return s
	}

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	gaps := make([]float64, 0, s.Epochs)
	for _, row := range res.Ledger {
		st := row.State
		sum += st.TVL
		minv = math.Min(minv, st.TVL)
		maxv = math.Max(maxv, st.TVL)
		gaps = append(gaps, st.Gap())

		if st.R > s.PeakR {
			s.PeakR = st.R
		}
		if st.R > 0 {
			s.RebateEpochs++
		}
		if st.BF > 0 {
			s.BurnFeeEpochs++
		}

		s.TotalGrossFees += row.Flows.GrossFees
		s.TotalNetFees += row.Flows.NetFees
		s.TotalRebatePaid += row.Flows.RebatePaid
		s.TotalClaimed += row.Flows.Claim
	}
	sort.Float64s(gaps)
	s.MinTVL = minv
	s.MaxTVL = maxv
	s.MeanTVL = sum / float64(s.Epochs)
	s.P05Gap = percentileSorted(gaps, 0.05)
	s.P95Gap = percentileSorted(gaps, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
