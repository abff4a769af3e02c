package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"econsim/internal/analysis"
	"econsim/internal/api/models"
	"econsim/internal/cache"
	"econsim/internal/config"
	"econsim/internal/logging"
	"econsim/internal/simulation"

	"github.com/gin-gonic/gin"
)

// DefaultMaxSteps bounds the run length a single request may ask for.
const DefaultMaxSteps = 100_000

var errTooManySteps = errors.New("too many steps")

// Run is a completed simulation as kept in the cache.
type Run struct {
	ID       string
	Scenario *config.Config
	Result   *simulation.Result
	Summary  analysis.Summary
}

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	runs     *cache.Cache[*Run]
	logger   *slog.Logger
	maxSteps int
}

// NewSimulationHandler creates a new simulation handler. A nil cache
// disables run lookup by id.
func NewSimulationHandler(runs *cache.Cache[*Run], logger *slog.Logger, maxSteps int) *SimulationHandler {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &SimulationHandler{runs: runs, logger: logger, maxSteps: maxSteps}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	// An empty body, chunked or not, runs the baseline.
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg, err := h.scenario(config.Default(), req.Scenario)
	if err != nil {
		writeScenarioError(c, err)
		return
	}

	run, cached, err := h.execute(cfg)
	if err != nil {
		writeSimulationError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(run, cached, req.Options))
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	var opts models.SimulationOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	id := c.Param("id")
	run, ok := h.runs.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: fmt.Sprintf("simulation %q not found or expired", id),
			},
		})
		return
	}
	c.JSON(http.StatusOK, buildResponse(run, true, opts))
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	metric := req.RankBy
	if metric == "" {
		metric = analysis.DefaultMetric
	}
	if _, err := analysis.Metric(analysis.Summary{}, metric); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_METRIC", err)
		return
	}

	seen := make(map[string]bool, len(req.Variations))
	for _, v := range req.Variations {
		if seen[v.Name] {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Errorf("duplicate variation name %q", v.Name))
			return
		}
		seen[v.Name] = true
	}

	base, err := h.scenario(config.Default(), req.Base)
	if err != nil {
		writeScenarioError(c, err)
		return
	}

	// Variations are independent runs and share nothing.
	type outcome struct {
		run *Run
		err error
	}
	outcomes := make([]outcome, len(req.Variations))
	var wg sync.WaitGroup
	for i, v := range req.Variations {
		wg.Add(1)
		go func(i int, v models.Variation) {
			defer wg.Done()
			cfg, err := h.scenario(base, v.Scenario)
			if err != nil {
				outcomes[i].err = err
				return
			}
			cfg.Name = v.Name
			outcomes[i].run, _, outcomes[i].err = h.execute(cfg)
		}(i, v)
	}
	wg.Wait()

	resp := models.CompareResponse{RankedBy: metric}
	summaries := make([]analysis.Summary, 0, len(outcomes))
	ids := make(map[string]string, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			resp.Failed = append(resp.Failed, models.FailedVariation{
				Name:  req.Variations[i].Name,
				Error: detailFor(o.err),
			})
			continue
		}
		summaries = append(summaries, o.run.Summary)
		ids[o.run.Summary.Name] = o.run.ID
	}

	ranked, err := analysis.RankBy(summaries, metric)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_METRIC", err)
		return
	}
	resp.Comparison = make([]models.ComparisonResult, 0, len(ranked))
	for i, s := range ranked {
		v, _ := analysis.Metric(s, metric)
		resp.Comparison = append(resp.Comparison, models.ComparisonResult{
			Rank:    i + 1,
			Name:    s.Name,
			ID:      ids[s.Name],
			Metric:  v,
			Summary: s,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// scenarioError marks a request whose scenario is malformed or invalid.
type scenarioError struct{ err error }

func (e *scenarioError) Error() string { return e.err.Error() }
func (e *scenarioError) Unwrap() error { return e.err }

// scenario applies raw over a copy of base and validates the result.
func (h *SimulationHandler) scenario(base *config.Config, raw json.RawMessage) (*config.Config, error) {
	cfg := base.Clone()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, &scenarioError{fmt.Errorf("parse scenario: %w", err)}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &scenarioError{err}
	}
	if cfg.Steps > h.maxSteps {
		return nil, &scenarioError{fmt.Errorf("%w: %d exceeds limit %d", errTooManySteps, cfg.Steps, h.maxSteps)}
	}
	return cfg, nil
}

// execute runs cfg, or returns the cached run for an identical scenario.
func (h *SimulationHandler) execute(cfg *config.Config) (*Run, bool, error) {
	id, err := cache.Key(cfg)
	if err != nil {
		return nil, false, err
	}
	if run, ok := h.runs.Get(id); ok {
		h.logger.Debug("simulation cache hit", "id", id, "scenario", cfg.Name)
		return run, true, nil
	}

	m, err := cfg.BuildModels()
	if err != nil {
		return nil, false, &scenarioError{err}
	}
	engine := simulation.New(cfg.Engine, simulation.WithLogger(h.logger.With("scenario", cfg.Name, "id", id)))
	result, err := engine.Run(cfg.Steps, m)
	if err != nil {
		return nil, false, err
	}

	run := &Run{
		ID:       id,
		Scenario: cfg,
		Result:   result,
		Summary:  analysis.Summarize(cfg.Name, result),
	}
	h.runs.Set(id, run)
	h.logger.Info("simulation completed", "id", id, "scenario", cfg.Name, "steps", cfg.Steps)
	return run, false, nil
}

func buildResponse(run *Run, cached bool, opts models.SimulationOptions) models.SimulationResponse {
	resp := models.SimulationResponse{
		ID:       run.ID,
		Status:   "completed",
		Cached:   cached,
		Scenario: run.Scenario,
		Summary:  run.Summary,
	}
	if opts.IncludeStates {
		resp.States = run.Result.States()
	}
	if opts.IncludeLedger {
		resp.Ledger = run.Result.Ledger
	}
	return resp
}

func detailFor(err error) models.ErrorDetail {
	var (
		se     *scenarioError
		numErr *simulation.NumericError
	)
	switch {
	case errors.As(err, &se):
		code := "INVALID_SCENARIO"
		if errors.Is(err, errTooManySteps) {
			code = "STEPS_LIMIT"
		}
		return models.ErrorDetail{Code: code, Message: err.Error()}
	case errors.As(err, &numErr):
		return models.ErrorDetail{
			Code:    "NON_FINITE",
			Message: err.Error(),
			Details: map[string]any{"epoch": numErr.Epoch, "field": numErr.Field},
		}
	case errors.Is(err, simulation.ErrFeeRebateConflict):
		return models.ErrorDetail{Code: "FEE_REBATE_CONFLICT", Message: err.Error()}
	case errors.Is(err, simulation.ErrRateOutOfRange):
		return models.ErrorDetail{Code: "RATE_OUT_OF_RANGE", Message: err.Error()}
	default:
		return models.ErrorDetail{Code: "SIMULATION_ERROR", Message: err.Error()}
	}
}

func writeScenarioError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: detailFor(err)})
}

func writeSimulationError(c *gin.Context, err error) {
	d := detailFor(err)
	status := http.StatusUnprocessableEntity
	switch d.Code {
	case "INVALID_SCENARIO", "STEPS_LIMIT":
		status = http.StatusBadRequest
	case "SIMULATION_ERROR":
		status = http.StatusInternalServerError
	}
	c.JSON(status, models.ErrorResponse{Error: d})
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
