package report

import (
	"bytes"
	"strings"
	"testing"

	"econsim/internal/analysis"
	"econsim/internal/model"
	"econsim/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpoch(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Epoch(simulation.LedgerRow{
		Epoch: 1,
		State: model.State{TVL: 2_000_000, TVB: 0, FClaimed: 146.706, RPool: 6_000},
	})
	assert.Equal(t, "[1] tvl=2,000,000.00 tvb=0.00 f_claimed=146.71 r_pool=6,000.00\n", buf.String())
}

func TestLedger(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Ledger([]simulation.LedgerRow{{Epoch: 1}, {Epoch: 2}, {Epoch: 3}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "[3] "))
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Summary(analysis.Summary{
		Name:          "baseline",
		Epochs:        180,
		Final:         model.State{TVL: 1_234_567.891},
		RebateEpochs:  12,
		BurnFeeEpochs: 3,
	})
	out := buf.String()
	assert.Contains(t, out, "scenario: baseline (180 epochs)")
	assert.Contains(t, out, "tvl=1,234,567.89")
	assert.Contains(t, out, "epochs=12")
	assert.Contains(t, out, "burn fee epochs=3")
}

func TestRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	ranked := []analysis.Summary{
		{Name: "hi", Final: model.State{TVL: 3000}},
		{Name: "lo", Final: model.State{TVL: 10}},
	}
	require.NoError(t, p.Ranking(ranked, ""))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ranked by final_tvl", lines[0])
	assert.Contains(t, lines[1], "hi")
	assert.Contains(t, lines[1], "3,000.00")

	assert.Error(t, p.Ranking(ranked, "bogus"))
}
