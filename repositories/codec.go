package repositories

import (
	"fmt"
	"time"

	"social-club/domain"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Chat messages are stored in badger as protobuf wire records:
//
//	1: id (string)  2: conversation id (string)  3: sender id (string)
//	4: recipient id (string)  5: content (string)  6: created at (unix nanos, varint)
const (
	fieldID protowire.Number = iota + 1
	fieldConversation
	fieldSender
	fieldRecipient
	fieldContent
	fieldCreatedAt
)

func marshalMessage(m domain.ChatMessage) []byte {
	var b []byte
	b = appendString(b, fieldID, m.ID.String())
	b = appendString(b, fieldConversation, string(m.ConversationID))
	b = appendString(b, fieldSender, m.SenderID)
	b = appendString(b, fieldRecipient, m.RecipientID)
	b = appendString(b, fieldContent, m.Content)
	b = protowire.AppendTag(b, fieldCreatedAt, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.CreatedAt.UnixNano()))
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// UnmarshalMessage skips unknown fields so older binaries can read newer records.
func UnmarshalMessage(b []byte) (domain.ChatMessage, error) {
	var m domain.ChatMessage
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return domain.ChatMessage{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return domain.ChatMessage{}, protowire.ParseError(n)
			}
			b = b[n:]
			switch num {
			case fieldID:
				id, err := uuid.Parse(v)
				if err != nil {
					return domain.ChatMessage{}, fmt.Errorf("message id: %w", err)
				}
				m.ID = id
			case fieldConversation:
				m.ConversationID = domain.ConversationID(v)
			case fieldSender:
				m.SenderID = v
			case fieldRecipient:
				m.RecipientID = v
			case fieldContent:
				m.Content = v
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return domain.ChatMessage{}, protowire.ParseError(n)
			}
			b = b[n:]
			if num == fieldCreatedAt {
				m.CreatedAt = time.Unix(0, int64(v)).UTC()
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return domain.ChatMessage{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return m, nil
}
