package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"econsim/internal/behavior"
	"econsim/internal/logging"
	"econsim/internal/model"
	"econsim/internal/policy"
)

var (
	ErrNegativeSteps = errors.New("number of steps must be >= 0")
	ErrNonFinite     = errors.New("non-finite value")
	// ErrFeeRebateConflict means the policy charged a burn fee and paid a
	// rebate in the same epoch.
	ErrFeeRebateConflict = errors.New("burn fee and rebate are both non-zero")
	// ErrRateOutOfRange means a fee left [0, 1) or the rebate went negative.
	ErrRateOutOfRange = errors.New("rate out of range")
)

// NumericError reports a NaN or infinite quantity produced at an epoch.
type NumericError struct {
	Epoch int
	Field string
	Value float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("epoch %d: %s is %v", e.Epoch, e.Field, e.Value)
}

func (e *NumericError) Unwrap() error { return ErrNonFinite }

// Models is the full set of models one run is driven by. The engine depends
// only on these interfaces, never on a concrete formula.
type Models struct {
	TotalValueBonded behavior.BondingModel
	MintVolume       behavior.VolumeModel
	BurnVolume       behavior.VolumeModel

	MintFee         policy.RateCurve
	BurnFee         policy.RateCurve
	Rebate          policy.RateCurve
	RebateCollected policy.Allocation
}

// Validate reports the first missing model.
func (m Models) Validate() error {
	switch {
	case m.TotalValueBonded == nil:
		return errors.New("total value bonded model is nil")
	case m.MintVolume == nil:
		return errors.New("mint volume model is nil")
	case m.BurnVolume == nil:
		return errors.New("burn volume model is nil")
	case m.MintFee == nil:
		return errors.New("mint fee curve is nil")
	case m.BurnFee == nil:
		return errors.New("burn fee curve is nil")
	case m.Rebate == nil:
		return errors.New("rebate curve is nil")
	case m.RebateCollected == nil:
		return errors.New("rebate allocation is nil")
	}
	return nil
}

// DefaultModels wires the baseline models from their parameters.
func DefaultModels(bp behavior.Params, pp policy.Params) Models {
	return Models{
		TotalValueBonded: behavior.NewTargetROIBonding(bp),
		MintVolume:       behavior.ConstantVolume{Amount: bp.MintVolume},
		BurnVolume:       behavior.NewArbitrageBurn(bp),
		MintFee:          policy.ConstantRate{Value: pp.MintFee},
		BurnFee:          policy.CapacityBurnFee{Fee: pp.BurnFee},
		Rebate:           policy.NewGapTrendRebate(pp),
		RebateCollected:  policy.ShareAllocation{Share: pp.RebateShare},
	}
}

// Params are the constants owned by the engine itself.
type Params struct {
	// ClaimRate is the fraction of unclaimed fees operators claim each epoch.
	// The default claims roughly half of the unclaimed fees per 30 epochs.
	ClaimRate float64 `yaml:"claim_rate" json:"claim_rate" env:"ECONSIM_CLAIM_RATE"`
}

func DefaultParams() Params {
	return Params{ClaimRate: 0.024451}
}

// Engine steps a History forward one epoch at a time.
type Engine struct {
	params   Params
	logger   *slog.Logger
	observer func(LedgerRow)
}

type Option func(*Engine)

// WithLogger sets the logger used for per-epoch debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers fn to be called with every row as soon as its
// epoch is appended. Rows already observed stay observed if a later epoch
// fails.
func WithObserver(fn func(LedgerRow)) Option {
	return func(e *Engine) { e.observer = fn }
}

func New(params Params, opts ...Option) *Engine {
	e := &Engine{params: params, logger: logging.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step computes the state that follows h. Every model is queried against h
// exactly as given, so no model ever sees the epoch being computed. h is not
// modified.
func (e *Engine) Step(h *model.History, m Models) (model.State, Flows, error) {
	prev := h.Latest()
	epoch := h.Len()

	mv := m.MintVolume.Volume(h)
	bv := m.BurnVolume.Volume(h)
	mf := m.MintFee.Rate(h)
	bf := m.BurnFee.Rate(h)
	r := m.Rebate.Rate(h)
	if bf != 0 && r != 0 {
		return model.State{}, Flows{}, fmt.Errorf("epoch %d: %w (bf=%v r=%v)", epoch, ErrFeeRebateConflict, bf, r)
	}
	if mf < 0 || mf >= 1 || bf < 0 || bf >= 1 || r < 0 {
		return model.State{}, Flows{}, fmt.Errorf("epoch %d: %w (mf=%v bf=%v r=%v)", epoch, ErrRateOutOfRange, mf, bf, r)
	}

	var f Flows
	f.MintVolume = mv
	f.BurnVolume = bv
	f.RebatePaid = bv * r
	f.GrossFees = mv*mf + bv*bf
	f.RebateCollected = m.RebateCollected.Collect(h, f.GrossFees)
	f.NetFees = f.GrossFees - f.RebateCollected
	f.Claim = prev.FUnclaimed * e.params.ClaimRate

	next := model.State{
		TVB:        m.TotalValueBonded.TotalValueBonded(h),
		TVL:        prev.TVL + mv - bv,
		TVR:        prev.TVR + f.RebateCollected,
		MF:         mf,
		BF:         bf,
		R:          r,
		FUnclaimed: prev.FUnclaimed + f.NetFees - f.Claim,
		FClaimed:   prev.FClaimed + f.Claim,
		RPool:      math.Max(0, prev.RPool+f.RebateCollected-f.RebatePaid),
	}

	if bad, ok := model.FirstNonFinite(append(next.Fields(), f.Fields()...)); ok {
		return model.State{}, Flows{}, &NumericError{Epoch: epoch, Field: bad.Name, Value: bad.Value}
	}
	return next, f, nil
}

// Run simulates numSteps epochs starting from genesis. The run is atomic:
// on any error no partial result is returned.
func (e *Engine) Run(numSteps int, m Models) (*Result, error) {
	if numSteps < 0 {
		return nil, ErrNegativeSteps
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	h := model.NewHistoryWithCapacity(numSteps + 1)
	ledger := make([]LedgerRow, 0, numSteps)
	warnedRate := false

	for i := 0; i < numSteps; i++ {
		next, flows, err := e.Step(h, m)
		if err != nil {
			return nil, err
		}
		h.Append(next)

		row := LedgerRow{Epoch: h.Len() - 1, State: next, Flows: flows}
		ledger = append(ledger, row)

		if next.R > 1 && !warnedRate {
			// Not an error; the rebate curve has no ceiling.
			e.logger.Warn("rebate rate exceeds 100%", "epoch", row.Epoch, "r", next.R)
			warnedRate = true
		}
		e.logger.Debug("epoch",
			"epoch", row.Epoch,
			"tvl", next.TVL,
			"tvb", next.TVB,
			"f_claimed", next.FClaimed,
			"r_pool", next.RPool,
		)
		e.logger.Log(context.Background(), logging.LevelTrace, "flows",
			"epoch", row.Epoch,
			"mint_volume", flows.MintVolume,
			"burn_volume", flows.BurnVolume,
			"gross_fees", flows.GrossFees,
			"rebate_collected", flows.RebateCollected,
			"rebate_paid", flows.RebatePaid,
			"claim", flows.Claim,
		)
		if e.observer != nil {
			e.observer(row)
		}
	}

	return &Result{History: h, Ledger: ledger}, nil
}

// RunSimulation runs numSteps epochs with the default engine parameters and
// returns the trajectory, genesis included.
func RunSimulation(numSteps int, m Models) ([]model.State, error) {
	res, err := New(DefaultParams()).Run(numSteps, m)
	if err != nil {
		return nil, err
	}
	return res.States(), nil
}
