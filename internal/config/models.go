package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"econsim/internal/behavior"
	"econsim/internal/policy"
	"econsim/internal/simulation"
)

// Model slots, as named in the scenario file.
const (
	SlotTotalValueBonded = "total_value_bonded"
	SlotMintVolume       = "mint_volume"
	SlotBurnVolume       = "burn_volume"
	SlotMintFee          = "mint_fee"
	SlotBurnFee          = "burn_fee"
	SlotRebate           = "rebate"
	SlotRebateCollected  = "rebate_collected"
)

// ModelInfo describes one selectable model.
type ModelInfo struct {
	Slot        string          `json:"slot"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Default     bool            `json:"default"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// ParameterInfo describes a model parameter. Defaults that come from the
// behavior or policy sections are named by their YAML path.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

var volumeParams = []ParameterInfo{
	{Name: "base", Type: "float", Description: "Volume at epoch 0 (USD)", Default: "behavior.<slot>"},
}

// Catalog lists every model the registry can build.
func Catalog() []ModelInfo {
	return []ModelInfo{
		{Slot: SlotTotalValueBonded, Name: "target_roi", Default: true,
			Description: "Operators bond enough capital for trailing fee income to hit behavior.target_roi a year."},
		{Slot: SlotTotalValueBonded, Name: "fixed",
			Description: "A constant amount stays bonded.",
			Parameters:  []ParameterInfo{{Name: "value", Type: "float", Description: "Bonded value (USD)", Default: 0.0}}},

		{Slot: SlotMintVolume, Name: "constant", Default: true,
			Description: "The same amount is minted every epoch.",
			Parameters:  []ParameterInfo{{Name: "amount", Type: "float", Description: "Volume per epoch (USD)", Default: "behavior.mint_volume"}}},
		{Slot: SlotMintVolume, Name: "growth",
			Description: "Volume compounds by a fixed rate per epoch.",
			Parameters:  append(volumeParams, ParameterInfo{Name: "rate", Type: "float", Description: "Growth per epoch", Default: 0.0})},
		{Slot: SlotMintVolume, Name: "seasonal",
			Description: "Volume oscillates sinusoidally around a base.",
			Parameters: append(volumeParams,
				ParameterInfo{Name: "amplitude", Type: "float", Description: "Relative swing", Default: 0.0},
				ParameterInfo{Name: "period", Type: "float", Description: "Epochs per cycle", Default: 30.0})},

		{Slot: SlotBurnVolume, Name: "arbitrage", Default: true,
			Description: "Constant burning plus arbitrage attracted by rebates at or above behavior.arbitrage_threshold."},
		{Slot: SlotBurnVolume, Name: "constant",
			Description: "The same amount is burned every epoch.",
			Parameters:  []ParameterInfo{{Name: "amount", Type: "float", Description: "Volume per epoch (USD)", Default: "behavior.burn_volume"}}},
		{Slot: SlotBurnVolume, Name: "growth",
			Description: "Volume compounds by a fixed rate per epoch.",
			Parameters:  append(volumeParams, ParameterInfo{Name: "rate", Type: "float", Description: "Growth per epoch", Default: 0.0})},
		{Slot: SlotBurnVolume, Name: "seasonal",
			Description: "Volume oscillates sinusoidally around a base.",
			Parameters: append(volumeParams,
				ParameterInfo{Name: "amplitude", Type: "float", Description: "Relative swing", Default: 0.0},
				ParameterInfo{Name: "period", Type: "float", Description: "Epochs per cycle", Default: 30.0})},

		{Slot: SlotMintFee, Name: "constant", Default: true,
			Description: "A static minting fee.",
			Parameters:  []ParameterInfo{{Name: "value", Type: "float", Description: "Fee rate", Default: "policy.mint_fee"}}},
		{Slot: SlotMintFee, Name: "zero", Description: "No minting fee."},

		{Slot: SlotBurnFee, Name: "capacity", Default: true,
			Description: "Charges policy.burn_fee while locked value is below bonded value."},
		{Slot: SlotBurnFee, Name: "constant",
			Description: "A static burning fee. Conflicts with any non-zero rebate.",
			Parameters:  []ParameterInfo{{Name: "value", Type: "float", Description: "Fee rate", Default: "policy.burn_fee"}}},
		{Slot: SlotBurnFee, Name: "zero", Description: "No burning fee."},

		{Slot: SlotRebate, Name: "gap_trend", Default: true,
			Description: "Steps the rebate by policy.rebate_step against the trailing mean of locked minus bonded value."},
		{Slot: SlotRebate, Name: "constant",
			Description: "A static rebate rate. Conflicts with any non-zero burn fee.",
			Parameters:  []ParameterInfo{{Name: "value", Type: "float", Description: "Rebate rate", Default: 0.0}}},
		{Slot: SlotRebate, Name: "zero", Description: "No rebates."},

		{Slot: SlotRebateCollected, Name: "share", Default: true,
			Description: "A fixed share of collected fees funds the rebate pool.",
			Parameters:  []ParameterInfo{{Name: "share", Type: "float", Description: "Fraction of fees", Default: "policy.rebate_share"}}},
	}
}

// BuildModels turns the model selection into concrete models.
func (c *Config) BuildModels() (simulation.Models, error) {
	var (
		m   simulation.Models
		err error
	)
	if m.TotalValueBonded, err = c.buildBonding(c.Models.TotalValueBonded); err != nil {
		return m, fmt.Errorf("%s: %w", SlotTotalValueBonded, err)
	}
	if m.MintVolume, err = c.buildVolume(c.Models.MintVolume, "constant", c.Behavior.MintVolume); err != nil {
		return m, fmt.Errorf("%s: %w", SlotMintVolume, err)
	}
	if m.BurnVolume, err = c.buildVolume(c.Models.BurnVolume, "arbitrage", c.Behavior.BurnVolume); err != nil {
		return m, fmt.Errorf("%s: %w", SlotBurnVolume, err)
	}
	if m.MintFee, err = c.buildRate(c.Models.MintFee, "constant", c.Policy.MintFee); err != nil {
		return m, fmt.Errorf("%s: %w", SlotMintFee, err)
	}
	if m.BurnFee, err = c.buildRate(c.Models.BurnFee, "capacity", c.Policy.BurnFee); err != nil {
		return m, fmt.Errorf("%s: %w", SlotBurnFee, err)
	}
	if m.Rebate, err = c.buildRate(c.Models.Rebate, "gap_trend", 0); err != nil {
		return m, fmt.Errorf("%s: %w", SlotRebate, err)
	}
	if m.RebateCollected, err = c.buildAllocation(c.Models.RebateCollected); err != nil {
		return m, fmt.Errorf("%s: %w", SlotRebateCollected, err)
	}
	return m, nil
}

func modelName(mc ModelConfig, def string) string {
	name := strings.TrimSpace(mc.Name)
	if name == "" {
		return def
	}
	return name
}

func (c *Config) buildBonding(mc ModelConfig) (behavior.BondingModel, error) {
	p := newParams(mc.Params)
	var b behavior.BondingModel
	switch modelName(mc, "target_roi") {
	case "target_roi":
		b = behavior.NewTargetROIBonding(c.Behavior)
	case "fixed":
		v := p.num("value", 0)
		p.check(v >= 0, "value must be >= 0")
		b = behavior.FixedBonding{Value: v}
	default:
		return nil, fmt.Errorf("unsupported model: %q", mc.Name)
	}
	return b, p.done()
}

func (c *Config) buildVolume(mc ModelConfig, def string, amount float64) (behavior.VolumeModel, error) {
	p := newParams(mc.Params)
	var v behavior.VolumeModel
	switch modelName(mc, def) {
	case "constant":
		a := p.num("amount", amount)
		p.check(a >= 0, "amount must be >= 0")
		v = behavior.ConstantVolume{Amount: a}
	case "growth":
		g := behavior.GrowthVolume{
			Base: p.num("base", amount),
			Rate: p.num("rate", 0),
		}
		p.check(g.Base >= 0, "base must be >= 0")
		p.check(g.Rate > -1, "rate must be > -1")
		v = g
	case "seasonal":
		sv := behavior.SeasonalVolume{
			Base:      p.num("base", amount),
			Amplitude: p.num("amplitude", 0),
			Period:    p.num("period", 30),
		}
		p.check(sv.Base >= 0, "base must be >= 0")
		p.check(sv.Amplitude >= 0, "amplitude must be >= 0")
		p.check(sv.Period > 0, "period must be > 0")
		v = sv
	case "arbitrage":
		// Arbitrage only makes sense for burning; mint slots reject it below.
		if def != "arbitrage" {
			return nil, fmt.Errorf("unsupported model: %q", mc.Name)
		}
		v = behavior.NewArbitrageBurn(c.Behavior)
	default:
		return nil, fmt.Errorf("unsupported model: %q", mc.Name)
	}
	return v, p.done()
}

// buildRate builds a fee curve, or the rebate curve when def is gap_trend.
// Fees stay in [0, 1); rebates only need to be non-negative.
func (c *Config) buildRate(mc ModelConfig, def string, value float64) (policy.RateCurve, error) {
	p := newParams(mc.Params)
	var r policy.RateCurve
	switch name := modelName(mc, def); {
	case name == "constant":
		v := p.num("value", value)
		if def == "gap_trend" {
			p.check(v >= 0, "value must be >= 0")
		} else {
			p.check(v >= 0 && v < 1, "value must be in [0, 1)")
		}
		r = policy.ConstantRate{Value: v}
	case name == "zero":
		r = policy.ZeroRate{}
	case name == "capacity" && def == "capacity":
		r = policy.CapacityBurnFee{Fee: c.Policy.BurnFee}
	case name == "gap_trend" && def == "gap_trend":
		r = policy.NewGapTrendRebate(c.Policy)
	default:
		return nil, fmt.Errorf("unsupported model: %q", mc.Name)
	}
	return r, p.done()
}

func (c *Config) buildAllocation(mc ModelConfig) (policy.Allocation, error) {
	p := newParams(mc.Params)
	switch modelName(mc, "share") {
	case "share":
		share := p.num("share", c.Policy.RebateShare)
		p.check(share >= 0 && share <= 1, "share must be in [0, 1]")
		return policy.ShareAllocation{Share: share}, p.done()
	default:
		return nil, fmt.Errorf("unsupported model: %q", mc.Name)
	}
}

// params reads model parameters and remembers the first problem, so a
// builder can read everything and report once.
type params struct {
	m    map[string]any
	used map[string]bool
	err  error
}

func newParams(m map[string]any) *params {
	return &params{m: m, used: make(map[string]bool, len(m))}
}

// num returns the numeric value of key, or def when it is absent.
func (p *params) num(key string, def float64) float64 {
	p.used[key] = true
	v, ok := p.m[key]
	if !ok || v == nil {
		return def
	}
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	}
	if p.err == nil {
		p.err = fmt.Errorf("param %q must be a number, got %T", key, v)
	}
	return def
}

func (p *params) check(ok bool, msg string) {
	if !ok && p.err == nil {
		p.err = errors.New(msg)
	}
}

// done reports the first bad value, then any key no model asked for.
func (p *params) done() error {
	if p.err != nil {
		return p.err
	}
	var unknown []string
	for k := range p.m {
		if !p.used[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown param(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}
