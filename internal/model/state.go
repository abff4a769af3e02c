package model

import "math"

// USD is an amount of value denominated in US dollars.
type USD = float64

// Percentage is a rate expressed as a fraction (0.003 = 0.3%).
type Percentage = float64

// State captures the economy at the end of one epoch.
//
// Every field is derived by the epoch driver from the behavior and policy
// models; nothing is simulated directly. Values are copied, never shared, so a
// State taken out of a History cannot be used to edit it.
type State struct {
	// Aggregate values.
	TVB USD `json:"tvb" yaml:"tvb"` // total value bonded by operators
	TVL USD `json:"tvl" yaml:"tvl"` // total value locked (minted minus burned)
	TVR USD `json:"tvr" yaml:"tvr"` // cumulative value made available for rebates

	// Curves in effect for the epoch.
	MF Percentage `json:"mf" yaml:"mf"` // mint fee
	BF Percentage `json:"bf" yaml:"bf"` // burn fee
	R  Percentage `json:"r" yaml:"r"`   // rebate rate

	// Fee and rebate balances.
	FUnclaimed USD `json:"f_unclaimed" yaml:"f_unclaimed"`
	FClaimed   USD `json:"f_claimed" yaml:"f_claimed"`
	RPool      USD `json:"r_pool" yaml:"r_pool"`
}

// Genesis returns the all-zero state every History starts from.
func Genesis() State { return State{} }

// Gap is TVL-TVB, the locked value not covered by bonded capital.
func (s State) Gap() USD { return s.TVL - s.TVB }

// Fields returns the state as ordered name/value pairs. Names match the JSON
// tags and are stable; reporting and validation iterate over them.
func (s State) Fields() []Field {
	return []Field{
		{"tvb", s.TVB},
		{"tvl", s.TVL},
		{"tvr", s.TVR},
		{"mf", s.MF},
		{"bf", s.BF},
		{"r", s.R},
		{"f_unclaimed", s.FUnclaimed},
		{"f_claimed", s.FClaimed},
		{"r_pool", s.RPool},
	}
}

// Field is one named numeric quantity.
type Field struct {
	Name  string
	Value float64
}

// FirstNonFinite returns the first NaN or infinite field, if any.
func FirstNonFinite(fields []Field) (Field, bool) {
	for _, f := range fields {
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			return f, true
		}
	}
	return Field{}, false
}
