package engine

// GateState is the state of the deletion confirmation gate.
type GateState int

const (
	GateIdle GateState = iota
	GateArmed
)

func (s GateState) String() string {
	if s == GateArmed {
		return "armed"
	}
	return "idle"
}

// Gate holds at most one deletion candidate until it is confirmed or
// cancelled.
type Gate struct {
	state     GateState
	candidate int
}

func (g Gate) State() GateState { return g.state }

func (g Gate) Armed() bool { return g.state == GateArmed }

// Candidate returns the key awaiting confirmation.
func (g Gate) Candidate() (key int, ok bool) {
	return g.candidate, g.state == GateArmed
}

// Arm records key as the candidate, replacing any earlier one.
func (g Gate) Arm(key int) Gate { return Gate{state: GateArmed, candidate: key} }

// Cancel disarms the gate and drops the candidate without any mutation.
func (g Gate) Cancel() Gate { return Gate{} }

// Confirm disarms the gate and releases the candidate. ok is false when the
// gate was idle.
func (g Gate) Confirm() (next Gate, key int, ok bool) {
	if g.state != GateArmed {
		return g, 0, false
	}
	return Gate{}, g.candidate, true
}
