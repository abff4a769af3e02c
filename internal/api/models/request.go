package models

import "encoding/json"

// SimulationRequest represents the request body for running a simulation.
// Scenario uses the scenario-file shape (as JSON) and is applied over the
// baseline; an empty body runs the baseline.
type SimulationRequest struct {
	Scenario json.RawMessage   `json:"scenario,omitempty"`
	Options  SimulationOptions `json:"options,omitempty"`
}

// SimulationOptions controls how much of the trajectory is returned.
type SimulationOptions struct {
	IncludeStates bool `json:"include_states,omitempty" form:"include_states"` // default: false
	IncludeLedger bool `json:"include_ledger,omitempty" form:"include_ledger"` // default: false
}

// CompareRequest represents a request to compare scenario variations.
// Each variation is applied over Base, which is applied over the baseline.
type CompareRequest struct {
	Base       json.RawMessage `json:"base,omitempty"`
	Variations []Variation     `json:"variations" binding:"required,min=1,dive"`
	RankBy     string          `json:"rank_by,omitempty"` // default: final_tvl
}

// Variation defines one scenario to compare.
type Variation struct {
	Name     string          `json:"name" binding:"required"`
	Scenario json.RawMessage `json:"scenario,omitempty"`
}
