package model

// History is the append-only sequence of epoch states, oldest first.
//
// A History built with NewHistory always holds at least the genesis state.
// Models receive a *History but only read it; the epoch driver is the only
// caller of Append.
type History struct {
	states []State
}

// NewHistory returns a History seeded with the genesis state.
func NewHistory() *History {
	return NewHistoryWithCapacity(1)
}

// NewHistoryWithCapacity is NewHistory with room for n states preallocated.
func NewHistoryWithCapacity(n int) *History {
	if n < 1 {
		n = 1
	}
	states := make([]State, 1, n)
	states[0] = Genesis()
	return &History{states: states}
}

// Append adds s as the newest entry.
func (h *History) Append(s State) {
	h.states = append(h.states, s)
}

// Len is the number of states, genesis included.
func (h *History) Len() int { return len(h.states) }

// At returns the i-th state (0 is genesis).
func (h *History) At(i int) State { return h.states[i] }

// Latest returns a copy of the newest state. It panics on an empty History,
// which only a zero-value History that skipped NewHistory can be.
func (h *History) Latest() State {
	if len(h.states) == 0 {
		panic("model: history is missing the genesis state")
	}
	return h.states[len(h.states)-1]
}

// States returns a copy of every state, oldest first.
func (h *History) States() []State {
	out := make([]State, len(h.states))
	copy(out, h.states)
	return out
}

// TrailingSum sums f over the last n states (fewer if the history is
// shorter). n <= 0 sums nothing.
func (h *History) TrailingSum(n int, f func(State) float64) float64 {
	start := len(h.states) - n
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for i := len(h.states) - 1; i >= start; i-- {
		sum += f(h.states[i])
	}
	return sum
}

// TrailingDeltaSum sums f(next)-f(prev) over the last n epoch-to-epoch
// deltas. A history of length k has k-1 deltas; fewer than n are summed when
// that is all there is.
func (h *History) TrailingDeltaSum(n int, f func(State) float64) float64 {
	sum := 0.0
	for i, taken := len(h.states)-1, 0; i > 0 && taken < n; i, taken = i-1, taken+1 {
		sum += f(h.states[i]) - f(h.states[i-1])
	}
	return sum
}

// Deltas is the number of epoch-to-epoch deltas available.
func (h *History) Deltas() int {
	if len(h.states) == 0 {
		return 0
	}
	return len(h.states) - 1
}
