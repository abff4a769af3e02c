package behavior

import "econsim/internal/model"

// TargetROIBonding assumes operators bond exactly enough capital for recent
// fee income to yield TargetROI a year.
//
// Recent income is the mean increase in claimed fees over the last
// BondWindow epochs. The divisor is always BondWindow, so a short history
// counts its missing epochs as zero income.
type TargetROIBonding struct {
	TargetROI     float64
	EpochsPerYear float64
	Window        int
}

func NewTargetROIBonding(p Params) *TargetROIBonding {
	return &TargetROIBonding{
		TargetROI:     p.TargetROI,
		EpochsPerYear: p.EpochsPerYear,
		Window:        p.BondWindow,
	}
}

func (b *TargetROIBonding) Name() string { return "target_roi" }

func (b *TargetROIBonding) TotalValueBonded(h *model.History) model.USD {
	if h.Len() < 2 || b.Window <= 0 {
		return 0
	}
	claimed := h.TrailingDeltaSum(b.Window, func(s model.State) float64 { return s.FClaimed })
	perAnnum := claimed / float64(b.Window) * b.EpochsPerYear
	return perAnnum / b.TargetROI
}

// FixedBonding keeps a constant amount bonded regardless of fees.
type FixedBonding struct {
	Value model.USD
}

func (b FixedBonding) Name() string                                { return "fixed" }
func (b FixedBonding) TotalValueBonded(_ *model.History) model.USD { return b.Value }
