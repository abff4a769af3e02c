package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"econsim/internal/api/handlers"
	"econsim/internal/api/models"
	"econsim/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	runs := cache.New[*handlers.Run](time.Hour)
	t.Cleanup(runs.Close)
	return NewRouter(Options{Runs: runs, MaxSteps: 1000})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListModels(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/api/v1/models", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.ModelsResponse](t, w)
	assert.NotEmpty(t, resp.Models)
	assert.Contains(t, resp.Metrics, "final_tvl")
}

func TestRunSimulation_Baseline(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/simulations", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.SimulationResponse](t, w)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.False(t, resp.Cached)
	assert.Equal(t, 180, resp.Summary.Epochs)
	assert.Equal(t, "baseline", resp.Scenario.Name)
	assert.Empty(t, resp.States)
	assert.Empty(t, resp.Ledger)
}

func TestRunSimulation_ChunkedEmptyBody(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations", bytes.NewReader(nil))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SimulationResponse](t, w)
	assert.Equal(t, "baseline", resp.Scenario.Name)
}

func TestRunSimulation_RejectsOutOfRangeModelParams(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/simulations",
		`{"scenario":{"models":{"mint_fee":{"name":"constant","params":{"value":1.5}}}}}`)

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INVALID_SCENARIO", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "value must be in [0, 1)")
}

func TestRunSimulation_IncludeStatesAndCache(t *testing.T) {
	r := newTestRouter(t)
	body := `{"scenario":{"steps":10,"engine":{"claim_rate":0.1}},"options":{"include_states":true,"include_ledger":true}}`

	w := do(t, r, http.MethodPost, "/api/v1/simulations", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[models.SimulationResponse](t, w)
	assert.Len(t, first.States, 11)
	assert.Len(t, first.Ledger, 10)
	assert.Equal(t, 0.1, first.Scenario.Engine.ClaimRate)
	assert.Equal(t, 0.05, first.Scenario.Behavior.TargetROI, "defaults fill the rest")

	w = do(t, r, http.MethodPost, "/api/v1/simulations", body)
	second := decode[models.SimulationResponse](t, w)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Cached)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+first.ID+"?include_states=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.SimulationResponse](t, w)
	assert.Equal(t, first.States, got.States)
	assert.Empty(t, got.Ledger)
}

func TestGetSimulation_NotFound(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/api/v1/simulations/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestRunSimulation_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"scenario":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad scenario type", `{"scenario":{"steps":"ten"}}`, http.StatusBadRequest, "INVALID_SCENARIO"},
		{"invalid params", `{"scenario":{"behavior":{"target_roi":0}}}`, http.StatusBadRequest, "INVALID_SCENARIO"},
		{"unknown model", `{"scenario":{"models":{"rebate":{"name":"magic"}}}}`, http.StatusBadRequest, "INVALID_SCENARIO"},
		{"too many steps", `{"scenario":{"steps":5000}}`, http.StatusBadRequest, "STEPS_LIMIT"},
		{
			"fee and rebate together",
			`{"scenario":{"steps":3,"models":{"burn_fee":{"name":"constant"},"rebate":{"name":"constant","params":{"value":0.001}}}}}`,
			http.StatusUnprocessableEntity, "FEE_REBATE_CONFLICT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/simulations", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[models.ErrorResponse](t, w).Error.Code)
		})
	}
}

func TestCompareSimulations(t *testing.T) {
	body := `{
		"base": {"steps": 30},
		"variations": [
			{"name": "low-mint", "scenario": {"behavior": {"mint_volume": 3000000}}},
			{"name": "high-mint", "scenario": {"behavior": {"mint_volume": 6000000}}},
			{"name": "broken", "scenario": {"models": {"mint_volume": {"name": "nope"}}}}
		],
		"rank_by": "final_tvl"
	}`
	w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/simulations/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.CompareResponse](t, w)
	assert.Equal(t, "final_tvl", resp.RankedBy)
	require.Len(t, resp.Comparison, 2)
	assert.Equal(t, "high-mint", resp.Comparison[0].Name)
	assert.Equal(t, 1, resp.Comparison[0].Rank)
	assert.Equal(t, 30, resp.Comparison[0].Summary.Epochs)
	assert.NotEmpty(t, resp.Comparison[0].ID)
	assert.Greater(t, resp.Comparison[0].Metric, resp.Comparison[1].Metric)

	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "broken", resp.Failed[0].Name)
	assert.Equal(t, "INVALID_SCENARIO", resp.Failed[0].Error.Code)
}

func TestCompareSimulations_BadRequests(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/simulations/compare", `{"variations":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/simulations/compare", `{"variations":[{"name":"a"}],"rank_by":"vibes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_METRIC", decode[models.ErrorResponse](t, w).Error.Code)

	w = do(t, r, http.MethodPost, "/api/v1/simulations/compare", `{"variations":[{"name":"a"},{"name":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoRoute(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/api/v2/anything", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
