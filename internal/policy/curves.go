package policy

import (
	"math"

	"econsim/internal/model"
)

// ConstantRate always returns Value.
type ConstantRate struct {
	Value model.Percentage
}

func (c ConstantRate) Name() string                           { return "constant" }
func (c ConstantRate) Rate(_ *model.History) model.Percentage { return c.Value }

// ZeroRate disables a curve, e.g. to run without rebates at all.
type ZeroRate struct{}

func (ZeroRate) Name() string                           { return "zero" }
func (ZeroRate) Rate(_ *model.History) model.Percentage { return 0 }

// CapacityBurnFee charges Fee on burns while locked value is below bonded
// capacity, and nothing otherwise.
//
// The charge condition (TVL < TVB) never overlaps the rebate condition of
// GapTrendRebate (TVB < TVL), so the burn fee is zero whenever a rebate is
// paid.
type CapacityBurnFee struct {
	Fee model.Percentage
}

func (c CapacityBurnFee) Name() string { return "capacity" }

func (c CapacityBurnFee) Rate(h *model.History) model.Percentage {
	s := h.Latest()
	if s.TVL < s.TVB {
		return c.Fee
	}
	return 0
}

// GapTrendRebate pays a rebate on burns while locked value exceeds bonded
// capacity. The rate creeps down by Step while the gap is shrinking relative
// to its trailing Window mean, and creeps up by Step otherwise.
//
// The mean always divides by Window, so a short history drags it towards
// zero. The rate has a floor of zero and no ceiling.
type GapTrendRebate struct {
	Step   model.Percentage
	Window int
}

func NewGapTrendRebate(p Params) *GapTrendRebate {
	return &GapTrendRebate{Step: p.RebateStep, Window: p.RebateWindow}
}

func (g *GapTrendRebate) Name() string { return "gap_trend" }

func (g *GapTrendRebate) Rate(h *model.History) model.Percentage {
	s := h.Latest()
	if !(s.TVB < s.TVL) {
		return 0
	}
	if g.Window <= 0 {
		return s.R + g.Step
	}
	mean := h.TrailingSum(g.Window, model.State.Gap) / float64(g.Window)
	if s.Gap() < mean {
		return math.Max(0, s.R-g.Step)
	}
	return s.R + g.Step
}

// ShareAllocation diverts a fixed Share of every fee to the rebate pool.
type ShareAllocation struct {
	Share float64
}

func (a ShareAllocation) Name() string { return "share" }

func (a ShareAllocation) Collect(_ *model.History, fee model.USD) model.USD {
	return fee * a.Share
}
