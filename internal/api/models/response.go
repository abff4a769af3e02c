package models

import (
	"econsim/internal/analysis"
	"econsim/internal/config"
	"econsim/internal/model"
	"econsim/internal/simulation"
)

// SimulationResponse represents a completed simulation run.
type SimulationResponse struct {
	ID       string                 `json:"id"`
	Status   string                 `json:"status"`
	Cached   bool                   `json:"cached"`
	Scenario *config.Config         `json:"scenario"`
	Summary  analysis.Summary       `json:"summary"`
	States   []model.State          `json:"states,omitempty"`
	Ledger   []simulation.LedgerRow `json:"ledger,omitempty"`
}

// CompareResponse represents the response from a comparison, best first.
type CompareResponse struct {
	RankedBy   string             `json:"ranked_by"`
	Comparison []ComparisonResult `json:"comparison"`
	Failed     []FailedVariation  `json:"failed,omitempty"`
}

// ComparisonResult contains results for one variation.
type ComparisonResult struct {
	Rank    int              `json:"rank"`
	Name    string           `json:"name"`
	ID      string           `json:"id"`
	Metric  float64          `json:"metric"`
	Summary analysis.Summary `json:"summary"`
}

// FailedVariation names a variation that could not be run.
type FailedVariation struct {
	Name  string      `json:"name"`
	Error ErrorDetail `json:"error"`
}

// ModelsResponse lists selectable models and ranking metrics.
type ModelsResponse struct {
	Models  []config.ModelInfo `json:"models"`
	Metrics []string           `json:"metrics"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
