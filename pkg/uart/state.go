package uart

// State is the protocol state of a device.
type State uint8

// States
const (
	Idle State = iota
	Transmitting
	Receiving
	TransmittingAndReceiving
)

var stateNames = [...]string{
	Idle:                     "idle",
	Transmitting:             "transmitting",
	Receiving:                "receiving",
	TransmittingAndReceiving: "transmitting+receiving",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsTransmitting indicates a frame is sent in this state.
func (s State) IsTransmitting() bool {
	return s == Transmitting || s == TransmittingAndReceiving
}

// IsReceiving indicates a frame is decoded in this state.
func (s State) IsReceiving() bool {
	return s == Receiving || s == TransmittingAndReceiving
}

// nextState derives the state from queue occupancy.
// With both queues empty the current state is kept.
func nextState(cur State, txPending, rxPending bool) State {
	switch {
	case txPending && rxPending:
		return TransmittingAndReceiving
	case rxPending:
		return Receiving
	case txPending:
		return Transmitting
	}
	return cur
}

// ParseState is the inverse of String.
func ParseState(s string) (State, bool) {
	for n, name := range stateNames {
		if name == s {
			return State(n), true
		}
	}
	return Idle, false
}
