// Package behavior models actors that are external to the network: minters,
// burners and bonding operators. They act independently of the protocol's
// mechanics, so these are the models to swap when exploring how the economy
// evolves under different assumptions about people.
//
// Every model is a pure function of the history; none may modify it.
package behavior

import "econsim/internal/model"

// BondingModel decides how much value operators keep bonded.
type BondingModel interface {
	Name() string
	TotalValueBonded(h *model.History) model.USD
}

// VolumeModel decides how much value is minted or burned in an epoch.
type VolumeModel interface {
	Name() string
	Volume(h *model.History) model.USD
}

// BondingFunc adapts a plain function to BondingModel.
type BondingFunc func(h *model.History) model.USD

func (f BondingFunc) Name() string                                { return "func" }
func (f BondingFunc) TotalValueBonded(h *model.History) model.USD { return f(h) }

// VolumeFunc adapts a plain function to VolumeModel.
type VolumeFunc func(h *model.History) model.USD

func (f VolumeFunc) Name() string                      { return "func" }
func (f VolumeFunc) Volume(h *model.History) model.USD { return f(h) }

// Params holds the constants the baseline behavior models are built from.
type Params struct {
	// TargetROI is the annual return operators need on bonded capital.
	TargetROI float64 `yaml:"target_roi" json:"target_roi"`
	// EpochsPerYear annualizes per-epoch fee income.
	EpochsPerYear float64 `yaml:"epochs_per_year" json:"epochs_per_year"`
	// BondWindow is the number of trailing epoch deltas averaged for fee income.
	BondWindow int `yaml:"bond_window" json:"bond_window"`

	MintVolume model.USD `yaml:"mint_volume" json:"mint_volume"`
	BurnVolume model.USD `yaml:"burn_volume" json:"burn_volume"`

	// ArbitrageThreshold is the lowest rebate rate that makes arbitrage worth
	// doing. Each ArbitrageThreshold of rebate attracts up to ArbitrageVolume
	// of extra burning.
	ArbitrageThreshold model.Percentage `yaml:"arbitrage_threshold" json:"arbitrage_threshold"`
	ArbitrageVolume    model.USD        `yaml:"arbitrage_volume" json:"arbitrage_volume"`
}

// DefaultParams returns the baseline constants.
func DefaultParams() Params {
	return Params{
		TargetROI:          0.05,
		EpochsPerYear:      365,
		BondWindow:         7,
		MintVolume:         4_000_000,
		BurnVolume:         2_000_000,
		ArbitrageThreshold: 0.001,
		ArbitrageVolume:    1_000_000,
	}
}
