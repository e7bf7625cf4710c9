package domain

import (
	"strings"
)

const conversationSeparator = "|"

// ConversationID identifies the thread between two users.
// It is derived from the unordered participant pair, never stored as its own aggregate.
type ConversationID string

// NewConversationID returns the same identifier for (a, b) and (b, a).
func NewConversationID(a, b string) ConversationID {
	if b < a {
		a, b = b, a
	}
	return ConversationID(a + conversationSeparator + b)
}

// Participants splits the identifier back into its two user IDs.
func (c ConversationID) Participants() (string, string, bool) {
	first, second, ok := strings.Cut(string(c), conversationSeparator)
	if !ok || first == "" || second == "" {
		return "", "", false
	}
	return first, second, true
}

// Peer returns the participant that is not userID.
func (c ConversationID) Peer(userID string) (string, bool) {
	first, second, ok := c.Participants()
	switch {
	case !ok:
		return "", false
	case first == userID:
		return second, true
	case second == userID:
		return first, true
	default:
		return "", false
	}
}

func (c ConversationID) String() string { return string(c) }
