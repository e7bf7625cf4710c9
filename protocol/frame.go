// Package protocol defines the JSON frames exchanged over the live socket.
// Every frame is an envelope {"type": ..., "data": ...}.
package protocol

import (
	"fmt"
	"time"

	"social-club/domain"
	"social-club/errors"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type Type string

const (
	TypeSendMessage  Type = "send-message"
	TypeNewMessage   Type = "new-message"
	TypeNotification Type = "notification"
	TypeError        Type = "error"
)

type Envelope struct {
	Type Type           `json:"type"`
	Data jsontext.Value `json:"data,omitempty"`
}

// SendMessage is the only frame a client may send.
type SendMessage struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

type NewMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SenderID  string    `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Actor     Actor     `json:"actor"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Error struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Encode wraps payload in an envelope of the given type.
func Encode(t Type, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: t, Data: data})
}

// Decode parses a client frame. Only send-message is accepted from clients.
func Decode(frame []byte) (SendMessage, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return SendMessage{}, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
	}
	if env.Type != TypeSendMessage {
		return SendMessage{}, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, env.Type)
	}
	if len(env.Data) == 0 {
		return SendMessage{}, fmt.Errorf("%w: missing data", errors.ErrInvalidFrame)
	}
	var msg SendMessage
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return SendMessage{}, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
	}
	return msg, nil
}

func NewMessageFrame(msg domain.ChatMessage) ([]byte, error) {
	return Encode(TypeNewMessage, NewMessage{
		ID:        msg.ID.String(),
		Content:   msg.Content,
		SenderID:  msg.SenderID,
		CreatedAt: msg.CreatedAt,
	})
}

func NotificationFrame(n domain.Notification) ([]byte, error) {
	return Encode(TypeNotification, Notification{
		ID:   n.ID.String(),
		Type: n.Type,
		Actor: Actor{
			ID:       n.Actor.ID,
			Username: n.Actor.Username,
			Avatar:   n.Actor.AvatarURL,
		},
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
}

// ErrorFrame never fails: it falls back to a static internal error frame.
func ErrorFrame(err error) []byte {
	frame, encErr := Encode(TypeError, Error{Code: errors.CodeOf(err), Message: errors.PublicMessage(err)})
	if encErr != nil {
		return []byte(`{"type":"error","data":{"code":"internal_error","message":"internal error"}}`)
	}
	return frame
}
