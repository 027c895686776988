package session

// State is the lifecycle stage of a session.
type State int

const (
	// StatePending waits for the user to enable sensors.
	StatePending State = iota
	// StateDenied means orientation permission was refused. It behaves like
	// StatePending; the user may try again.
	StateDenied
	// StateActive tracks orientation and captures.
	StateActive
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDenied:
		return "denied"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StreamConstraints are the options a host passes to its camera API.
type StreamConstraints struct {
	FacingMode string `json:"facingMode"`
	Exact      bool   `json:"exact"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}
