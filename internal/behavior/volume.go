package behavior

import (
	"math"

	"econsim/internal/model"
)

// ConstantVolume mints or burns the same amount every epoch, ignoring fees
// and rebates.
type ConstantVolume struct {
	Amount model.USD
}

func (v ConstantVolume) Name() string                      { return "constant" }
func (v ConstantVolume) Volume(_ *model.History) model.USD { return v.Amount }

// GrowthVolume compounds Base by Rate for every epoch already simulated.
type GrowthVolume struct {
	Base model.USD
	Rate float64
}

func (v GrowthVolume) Name() string { return "growth" }

func (v GrowthVolume) Volume(h *model.History) model.USD {
	return v.Base * math.Pow(1+v.Rate, float64(h.Len()-1))
}

// SeasonalVolume oscillates around Base with the given relative Amplitude and
// a Period measured in epochs. Volume never goes below zero.
type SeasonalVolume struct {
	Base      model.USD
	Amplitude float64
	Period    float64
}

func (v SeasonalVolume) Name() string { return "seasonal" }

func (v SeasonalVolume) Volume(h *model.History) model.USD {
	if v.Period <= 0 {
		return v.Base
	}
	epoch := float64(h.Len() - 1)
	out := v.Base * (1 + v.Amplitude*math.Sin(2*math.Pi*epoch/v.Period))
	return math.Max(0, out)
}

// ArbitrageBurn burns Base every epoch plus extra volume attracted by the
// rebate.
//
// A rebate below Threshold is not worth arbitraging. At or above it, every
// Threshold of rebate attracts up to PerThreshold of extra burning, capped by
// what the rebate pool can actually pay out at that rate.
type ArbitrageBurn struct {
	Base         model.USD
	Threshold    model.Percentage
	PerThreshold model.USD
}

func NewArbitrageBurn(p Params) *ArbitrageBurn {
	return &ArbitrageBurn{
		Base:         p.BurnVolume,
		Threshold:    p.ArbitrageThreshold,
		PerThreshold: p.ArbitrageVolume,
	}
}

func (v *ArbitrageBurn) Name() string { return "arbitrage" }

func (v *ArbitrageBurn) Volume(h *model.History) model.USD {
	s := h.Latest()
	if s.R < v.Threshold || s.R <= 0 {
		return v.Base
	}
	return v.Base + math.Min(s.RPool/s.R, v.PerThreshold*(s.R/v.Threshold))
}
