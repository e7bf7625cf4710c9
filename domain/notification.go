package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a transient push payload. It is never stored.
type Notification struct {
	ID        uuid.UUID
	Type      string
	Actor     Actor
	Message   string
	CreatedAt time.Time
}
