package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionState_Transitions(t *testing.T) {
	req := require.New(t)

	req.True(SessionConnecting.CanTransitionTo(SessionAuthenticated))
	req.True(SessionAuthenticated.CanTransitionTo(SessionActive))
	req.True(SessionActive.CanTransitionTo(SessionDisconnected))

	// Rejected token: straight from CONNECTING to DISCONNECTED
	req.True(SessionConnecting.CanTransitionTo(SessionDisconnected))

	req.False(SessionConnecting.CanTransitionTo(SessionActive))
	req.False(SessionActive.CanTransitionTo(SessionAuthenticated))
	req.False(SessionDisconnected.CanTransitionTo(SessionConnecting))

	req.Equal("ACTIVE", SessionActive.String())
}
