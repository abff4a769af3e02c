package simulation

import "econsim/internal/model"

// Flows are the per-epoch quantities that feed a new State but are not part
// of it.
type Flows struct {
	MintVolume      model.USD `json:"mint_volume"`
	BurnVolume      model.USD `json:"burn_volume"`
	GrossFees       model.USD `json:"gross_fees"`
	RebateCollected model.USD `json:"rebate_collected"`
	RebatePaid      model.USD `json:"rebate_paid"`
	NetFees         model.USD `json:"net_fees"`
	Claim           model.USD `json:"claim"`
}

// Fields lists the flows as ordered name/value pairs.
func (f Flows) Fields() []model.Field {
	return []model.Field{
		{Name: "mint_volume", Value: f.MintVolume},
		{Name: "burn_volume", Value: f.BurnVolume},
		{Name: "gross_fees", Value: f.GrossFees},
		{Name: "rebate_collected", Value: f.RebateCollected},
		{Name: "rebate_paid", Value: f.RebatePaid},
		{Name: "net_fees", Value: f.NetFees},
		{Name: "claim", Value: f.Claim},
	}
}

// LedgerRow is one computed epoch: the state it produced and the flows that
// produced it. This is the primary artifact for "what happened" in a run.
type LedgerRow struct {
	Epoch int         `json:"epoch"`
	State model.State `json:"state"`
	Flows Flows       `json:"flows"`
}

// Result is a completed run. History holds numSteps+1 states (genesis
// first); Ledger holds one row per computed epoch.
type Result struct {
	History *model.History
	Ledger  []LedgerRow
}

// States returns the full trajectory, genesis included.
func (r *Result) States() []model.State {
	return r.History.States()
}

// Final is the last state of the run.
func (r *Result) Final() model.State {
	return r.History.Latest()
}
