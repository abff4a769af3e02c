// Package policy models components the protocol controls: fee curves, the
// rebate curve and how collected fees are split with the rebate pool. Unlike
// the behavior models there is no uncertainty in how these act; swap them to
// try a different protocol design.
package policy

import "econsim/internal/model"

// RateCurve produces a percentage for the next epoch from the history.
type RateCurve interface {
	Name() string
	Rate(h *model.History) model.Percentage
}

// Allocation decides how much of a fee amount goes to the rebate pool. Fees
// allocated here are never paid to operators.
type Allocation interface {
	Name() string
	Collect(h *model.History, fee model.USD) model.USD
}

// RateFunc adapts a plain function to RateCurve.
type RateFunc func(h *model.History) model.Percentage

func (f RateFunc) Name() string                           { return "func" }
func (f RateFunc) Rate(h *model.History) model.Percentage { return f(h) }

// AllocationFunc adapts a plain function to Allocation.
type AllocationFunc func(h *model.History, fee model.USD) model.USD

func (f AllocationFunc) Name() string { return "func" }
func (f AllocationFunc) Collect(h *model.History, fee model.USD) model.USD {
	return f(h, fee)
}

// Params holds the constants the baseline policies are built from.
type Params struct {
	MintFee model.Percentage `yaml:"mint_fee" json:"mint_fee"`
	BurnFee model.Percentage `yaml:"burn_fee" json:"burn_fee"`

	// RebateStep is how far the rebate rate moves in one epoch.
	RebateStep model.Percentage `yaml:"rebate_step" json:"rebate_step"`
	// RebateWindow is the number of trailing epochs the gap is averaged over.
	RebateWindow int `yaml:"rebate_window" json:"rebate_window"`
	// RebateShare is the fraction of collected fees diverted to the rebate pool.
	RebateShare float64 `yaml:"rebate_share" json:"rebate_share"`
}

func DefaultParams() Params {
	return Params{
		MintFee:      0.003,
		BurnFee:      0.001,
		RebateStep:   0.0001,
		RebateWindow: 7,
		RebateShare:  0.5,
	}
}
