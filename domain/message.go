// Package domain contains core concepts of the social network.
// This file defines direct chat messages and related rules.
// Messages are immutable once persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a direct message between two users.
type ChatMessage struct {
	ID             uuid.UUID
	ConversationID ConversationID
	SenderID       string
	RecipientID    string
	Content        string
	CreatedAt      time.Time
}

// Conversation is the read model of a thread: the other participant and the latest message.
type Conversation struct {
	ID          ConversationID
	PeerID      string
	LastMessage ChatMessage
}
