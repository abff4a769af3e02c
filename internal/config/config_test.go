package config

import (
	"os"
	"path/filepath"
	"testing"

	"econsim/internal/behavior"
	"econsim/internal/policy"
	"econsim/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultSteps, c.Steps)
	assert.Equal(t, 0.024451, c.Engine.ClaimRate)
	assert.Equal(t, behavior.DefaultParams(), c.Behavior)
	assert.Equal(t, policy.DefaultParams(), c.Policy)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeScenario(t, `
name: growth
steps: 30
engine:
  claim_rate: 0.1
behavior:
  mint_volume: 5000000
policy:
  rebate_window: 14
models:
  mint_volume:
    name: growth
    params:
      rate: 0.01
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "growth", c.Name)
	assert.Equal(t, 30, c.Steps)
	assert.Equal(t, 0.1, c.Engine.ClaimRate)
	assert.Equal(t, 5_000_000.0, c.Behavior.MintVolume)
	assert.Equal(t, 0.05, c.Behavior.TargetROI, "unset fields keep their defaults")
	assert.Equal(t, 14, c.Policy.RebateWindow)

	m, err := c.BuildModels()
	require.NoError(t, err)
	g, ok := m.MintVolume.(behavior.GrowthVolume)
	require.True(t, ok)
	assert.Equal(t, 5_000_000.0, g.Base)
	assert.Equal(t, 0.01, g.Rate)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeScenario(t, "steps: 30\n")
	t.Setenv("ECONSIM_STEPS", "12")
	t.Setenv("ECONSIM_LOG_LEVEL", "debug")
	t.Setenv("ECONSIM_CLAIM_RATE", "0.5")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.Steps)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 0.5, c.Engine.ClaimRate)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeScenario(t, "steps: [1, 2\n"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("ECONSIM_STEPS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative steps", func(c *Config) { c.Steps = -1 }, "steps must be >= 0"},
		{"claim rate", func(c *Config) { c.Engine.ClaimRate = 1.5 }, "claim_rate"},
		{"target roi", func(c *Config) { c.Behavior.TargetROI = 0 }, "target_roi must be > 0"},
		{"bond window", func(c *Config) { c.Behavior.BondWindow = 0 }, "bond_window"},
		{"threshold", func(c *Config) { c.Behavior.ArbitrageThreshold = 0 }, "arbitrage_threshold"},
		{"rebate window", func(c *Config) { c.Policy.RebateWindow = 0 }, "rebate_window"},
		{"rebate share", func(c *Config) { c.Policy.RebateShare = 2 }, "rebate_share"},
		{"mint fee", func(c *Config) { c.Policy.MintFee = 1 }, "mint_fee"},
		{"unknown model", func(c *Config) { c.Models.Rebate.Name = "magic" }, `rebate: unsupported model: "magic"`},
		{"arbitrage mint", func(c *Config) { c.Models.MintVolume.Name = "arbitrage" }, "mint_volume: unsupported model"},
		{"capacity mint fee", func(c *Config) { c.Models.MintFee.Name = "capacity" }, "mint_fee: unsupported model"},
		{"mint fee value", func(c *Config) {
			c.Models.MintFee = ModelConfig{Name: "constant", Params: map[string]any{"value": 1.5}}
		}, "mint_fee: value must be in [0, 1)"},
		{"burn fee value", func(c *Config) {
			c.Models.BurnFee = ModelConfig{Name: "constant", Params: map[string]any{"value": -0.001}}
		}, "burn_fee: value must be in [0, 1)"},
		{"negative rebate", func(c *Config) {
			c.Models.Rebate = ModelConfig{Name: "constant", Params: map[string]any{"value": -0.001}}
		}, "rebate: value must be >= 0"},
		{"share", func(c *Config) {
			c.Models.RebateCollected = ModelConfig{Name: "share", Params: map[string]any{"share": 1.2}}
		}, "rebate_collected: share must be in [0, 1]"},
		{"period", func(c *Config) {
			c.Models.MintVolume = ModelConfig{Name: "seasonal", Params: map[string]any{"period": 0}}
		}, "mint_volume: period must be > 0"},
		{"amplitude", func(c *Config) {
			c.Models.BurnVolume = ModelConfig{Name: "seasonal", Params: map[string]any{"amplitude": -0.5}}
		}, "burn_volume: amplitude must be >= 0"},
		{"growth rate", func(c *Config) {
			c.Models.MintVolume = ModelConfig{Name: "growth", Params: map[string]any{"rate": -1}}
		}, "mint_volume: rate must be > -1"},
		{"negative amount", func(c *Config) {
			c.Models.BurnVolume = ModelConfig{Name: "constant", Params: map[string]any{"amount": -5}}
		}, "burn_volume: amount must be >= 0"},
		{"fixed value", func(c *Config) {
			c.Models.TotalValueBonded = ModelConfig{Name: "fixed", Params: map[string]any{"value": -1}}
		}, "total_value_bonded: value must be >= 0"},
		{"string param", func(c *Config) {
			c.Models.MintVolume = ModelConfig{Name: "growth", Params: map[string]any{"rate": "0.01"}}
		}, `mint_volume: param "rate" must be a number, got string`},
		{"misspelled param", func(c *Config) {
			c.Models.MintVolume = ModelConfig{Name: "seasonal", Params: map[string]any{"amplitud": 0.2}}
		}, "mint_volume: unknown param(s): amplitud"},
		{"param on parameterless model", func(c *Config) {
			c.Models.Rebate = ModelConfig{Name: "gap_trend", Params: map[string]any{"step": 0.01}}
		}, "rebate: unknown param(s): step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestBuildModels_DefaultsMatchEngineBaseline(t *testing.T) {
	m, err := Default().BuildModels()
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	want := simulation.DefaultModels(behavior.DefaultParams(), policy.DefaultParams())
	fromConfig, err := simulation.RunSimulation(60, m)
	require.NoError(t, err)
	fromDefaults, err := simulation.RunSimulation(60, want)
	require.NoError(t, err)
	assert.Equal(t, fromDefaults, fromConfig)
}

func TestBuildModels_IntegerParamsFromYAML(t *testing.T) {
	c := Default()
	c.Models.TotalValueBonded = ModelConfig{Name: "fixed", Params: map[string]any{"value": 1000}}
	c.Models.BurnVolume = ModelConfig{Name: "seasonal", Params: map[string]any{"amplitude": 0.2, "period": 14}}

	m, err := c.BuildModels()
	require.NoError(t, err)
	assert.Equal(t, behavior.FixedBonding{Value: 1000}, m.TotalValueBonded)
	assert.Equal(t, behavior.SeasonalVolume{Base: 2_000_000, Amplitude: 0.2, Period: 14}, m.BurnVolume)
}

func TestBuildModels_RateParamsAtBounds(t *testing.T) {
	c := Default()
	c.Models.MintFee = ModelConfig{Name: "constant", Params: map[string]any{"value": 0}}
	c.Models.BurnFee = ModelConfig{Name: "zero"}
	c.Models.Rebate = ModelConfig{Name: "constant", Params: map[string]any{"value": 1.5}}
	c.Models.RebateCollected = ModelConfig{Name: "share", Params: map[string]any{"share": 1}}
	require.NoError(t, c.Validate(), "rebates above 100% are allowed")

	m, err := c.BuildModels()
	require.NoError(t, err)
	states, err := simulation.RunSimulation(5, m)
	require.NoError(t, err)
	for i, s := range states {
		assert.GreaterOrEqual(t, s.R, 0.0, "epoch %d", i)
		assert.False(t, s.BF != 0 && s.R != 0, "epoch %d", i)
	}
}

func TestCatalog_EveryEntryBuilds(t *testing.T) {
	defaults := map[string]int{}
	for _, info := range Catalog() {
		c := Default()
		mc := ModelConfig{Name: info.Name}
		switch info.Slot {
		case SlotTotalValueBonded:
			c.Models.TotalValueBonded = mc
		case SlotMintVolume:
			c.Models.MintVolume = mc
		case SlotBurnVolume:
			c.Models.BurnVolume = mc
		case SlotMintFee:
			c.Models.MintFee = mc
		case SlotBurnFee:
			c.Models.BurnFee = mc
		case SlotRebate:
			c.Models.Rebate = mc
		case SlotRebateCollected:
			c.Models.RebateCollected = mc
		default:
			t.Fatalf("unknown slot %q", info.Slot)
		}
		_, err := c.BuildModels()
		assert.NoError(t, err, "%s/%s", info.Slot, info.Name)
		if info.Default {
			defaults[info.Slot]++
		}
	}
	assert.Len(t, defaults, 7)
	for slot, n := range defaults {
		assert.Equal(t, 1, n, "slot %s has one default", slot)
	}
}

func TestClone_DoesNotShareParams(t *testing.T) {
	c := Default()
	c.Models.MintVolume = ModelConfig{Name: "growth", Params: map[string]any{"rate": 0.01}}

	cp := c.Clone()
	cp.Models.MintVolume.Params["rate"] = 0.5
	cp.Steps = 3

	assert.Equal(t, 0.01, c.Models.MintVolume.Params["rate"])
	assert.Equal(t, DefaultSteps, c.Steps)
}
