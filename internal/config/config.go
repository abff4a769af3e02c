package config

import (
	"errors"
	"fmt"
	"os"

	"econsim/internal/behavior"
	"econsim/internal/policy"
	"econsim/internal/simulation"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultSteps is the run length used when a scenario does not set one.
const DefaultSteps = 180

// Config is the on-disk scenario shape (YAML). The same shape is accepted as
// JSON by the HTTP API.
type Config struct {
	Name     string `yaml:"name" json:"name"`
	Steps    int    `yaml:"steps" json:"steps" env:"ECONSIM_STEPS"`
	LogLevel string `yaml:"log_level" json:"log_level" env:"ECONSIM_LOG_LEVEL"`

	Engine   simulation.Params `yaml:"engine" json:"engine"`
	Behavior behavior.Params   `yaml:"behavior" json:"behavior"`
	Policy   policy.Params     `yaml:"policy" json:"policy"`
	Models   ModelsConfig      `yaml:"models" json:"models"`
}

// ModelsConfig selects a model per slot. An empty name selects the baseline.
type ModelsConfig struct {
	TotalValueBonded ModelConfig `yaml:"total_value_bonded" json:"total_value_bonded"`
	MintVolume       ModelConfig `yaml:"mint_volume" json:"mint_volume"`
	BurnVolume       ModelConfig `yaml:"burn_volume" json:"burn_volume"`
	MintFee          ModelConfig `yaml:"mint_fee" json:"mint_fee"`
	BurnFee          ModelConfig `yaml:"burn_fee" json:"burn_fee"`
	Rebate           ModelConfig `yaml:"rebate" json:"rebate"`
	RebateCollected  ModelConfig `yaml:"rebate_collected" json:"rebate_collected"`
}

type ModelConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:"params" json:"params,omitempty"`
}

// Default returns the baseline scenario.
func Default() *Config {
	return &Config{
		Name:     "baseline",
		Steps:    DefaultSteps,
		LogLevel: "info",
		Engine:   simulation.DefaultParams(),
		Behavior: behavior.DefaultParams(),
		Policy:   policy.DefaultParams(),
	}
}

// Load reads a scenario file over the defaults, applies environment
// overrides and validates the result. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from ECONSIM_* environment variables. Unset
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Steps < 0 {
		return errors.New("steps must be >= 0")
	}
	if c.Engine.ClaimRate < 0 || c.Engine.ClaimRate > 1 {
		return errors.New("engine.claim_rate must be in [0, 1]")
	}
	if err := validateBehavior(c.Behavior); err != nil {
		return fmt.Errorf("behavior config invalid: %w", err)
	}
	if err := validatePolicy(c.Policy); err != nil {
		return fmt.Errorf("policy config invalid: %w", err)
	}
	// Validate model selection by building the models.
	if _, err := c.BuildModels(); err != nil {
		return fmt.Errorf("models config invalid: %w", err)
	}
	return nil
}

func validateBehavior(p behavior.Params) error {
	switch {
	case p.TargetROI <= 0:
		return errors.New("target_roi must be > 0")
	case p.EpochsPerYear <= 0:
		return errors.New("epochs_per_year must be > 0")
	case p.BondWindow < 1:
		return errors.New("bond_window must be >= 1")
	case p.MintVolume < 0 || p.BurnVolume < 0:
		return errors.New("mint_volume and burn_volume must be >= 0")
	case p.ArbitrageThreshold <= 0:
		return errors.New("arbitrage_threshold must be > 0")
	case p.ArbitrageVolume < 0:
		return errors.New("arbitrage_volume must be >= 0")
	}
	return nil
}

func validatePolicy(p policy.Params) error {
	switch {
	case p.MintFee < 0 || p.MintFee >= 1:
		return errors.New("mint_fee must be in [0, 1)")
	case p.BurnFee < 0 || p.BurnFee >= 1:
		return errors.New("burn_fee must be in [0, 1)")
	case p.RebateStep < 0:
		return errors.New("rebate_step must be >= 0")
	case p.RebateWindow < 1:
		return errors.New("rebate_window must be >= 1")
	case p.RebateShare < 0 || p.RebateShare > 1:
		return errors.New("rebate_share must be in [0, 1]")
	}
	return nil
}

// Clone returns a deep copy; model params maps are not shared.
func (c *Config) Clone() *Config {
	out := *c
	out.Models = ModelsConfig{
		TotalValueBonded: c.Models.TotalValueBonded.clone(),
		MintVolume:       c.Models.MintVolume.clone(),
		BurnVolume:       c.Models.BurnVolume.clone(),
		MintFee:          c.Models.MintFee.clone(),
		BurnFee:          c.Models.BurnFee.clone(),
		Rebate:           c.Models.Rebate.clone(),
		RebateCollected:  c.Models.RebateCollected.clone(),
	}
	return &out
}

func (m ModelConfig) clone() ModelConfig {
	out := ModelConfig{Name: m.Name}
	if m.Params != nil {
		out.Params = make(map[string]any, len(m.Params))
		for k, v := range m.Params {
			out.Params[k] = v
		}
	}
	return out
}
