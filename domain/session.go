package domain

// SessionState is the lifecycle of one live socket connection.
type SessionState int32

const (
	SessionConnecting SessionState = iota
	SessionAuthenticated
	SessionActive
	SessionDisconnected
)

func (s SessionState) String() string {
	switch s {
	case SessionConnecting:
		return "CONNECTING"
	case SessionAuthenticated:
		return "AUTHENTICATED"
	case SessionActive:
		return "ACTIVE"
	case SessionDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// CanTransitionTo encodes CONNECTING -> AUTHENTICATED -> ACTIVE -> DISCONNECTED.
// Any live state may jump to DISCONNECTED; DISCONNECTED is terminal.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	if s == SessionDisconnected {
		return false
	}
	if next == SessionDisconnected {
		return true
	}
	return next == s+1
}
