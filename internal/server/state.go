package server

// State is the listener lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateAwaitingConnection
	StateSessionActive
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConnection:
		return "awaiting_connection"
	case StateSessionActive:
		return "session_active"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
