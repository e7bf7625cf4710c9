package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		allowed  bool
	}{
		{ApplicationSubmitted, ApplicationReviewing, true},
		{ApplicationSubmitted, ApplicationAccepted, true},
		{ApplicationReviewing, ApplicationRejected, true},
		{ApplicationReviewing, ApplicationSubmitted, false},
		{ApplicationAccepted, ApplicationRejected, false},
		{ApplicationRejected, ApplicationReviewing, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			require.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationStatus_Valid(t *testing.T) {
	req := require.New(t)
	req.True(ApplicationReviewing.Valid())
	req.False(ApplicationStatus("HIRED").Valid())
}
