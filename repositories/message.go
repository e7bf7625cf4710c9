//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"social-club/domain"
	"social-club/errors"

	"github.com/dgraph-io/badger/v4"
)

const (
	messagePrefix      = "msg:"
	conversationPrefix = "conv:"
	cursorDigits       = 19
)

type IMessageRepository interface {
	StoreMessage(message domain.ChatMessage) error
	GetMessages(conversation domain.ConversationID, cursor *string) ([]domain.ChatMessage, *string, error)
	GetConversations(userID string) ([]domain.Conversation, error)
	Count() (int64, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// messageKey is "msg:{conversation}:{unix nanos, 19 digits}:{uuid}" so that a prefix
// scan returns a conversation in chronological order; the uuid disambiguates
// two messages written in the same nanosecond.
func messageKey(m domain.ChatMessage) []byte {
	return []byte(fmt.Sprintf("%s%s:%0*d:%s", messagePrefix, m.ConversationID, cursorDigits, m.CreatedAt.UnixNano(), m.ID))
}

// conversationKey indexes the latest message of a thread for each participant.
func conversationKey(userID, peerID string) []byte {
	return []byte(conversationPrefix + userID + ":" + peerID)
}

// StoreMessage writes the message and refreshes both participants' conversation index
// in a single transaction: either everything is visible or nothing is.
func (m MessageRepository) StoreMessage(message domain.ChatMessage) error {
	value := marshalMessage(message)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message), value); err != nil {
			return err
		}
		if err := txn.Set(conversationKey(message.SenderID, message.RecipientID), value); err != nil {
			return err
		}
		return txn.Set(conversationKey(message.RecipientID, message.SenderID), value)
	})
}

// GetMessages pages through a conversation from the newest message backwards.
// The returned cursor is opaque to callers; pass it back to fetch the next (older) page.
// A nil cursor means there is nothing older.
func (m MessageRepository) GetMessages(conversation domain.ConversationID, cursor *string) ([]domain.ChatMessage, *string, error) {
	if cursor != nil && !validCursor(*cursor) {
		return nil, nil, errors.ErrInvalidCursor
	}

	var messages []domain.ChatMessage
	var lastKey string
	hasMore := false
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := messagePrefix + string(conversation) + ":"
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Past the newest possible timestamp, then walk backwards
			seekKey = append([]byte(prefixStr), []byte(strings.Repeat("9", cursorDigits+1))...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				hasMore = true
				break
			}
			item := it.Item()
			lastKey = string(item.KeyCopy(nil)[len(prefix):])
			err := item.Value(func(value []byte) error {
				msg, err := UnmarshalMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !hasMore {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// validCursor accepts "{19 digits}:{uuid}" only.
func validCursor(cursor string) bool {
	ts, id, ok := strings.Cut(cursor, ":")
	if !ok || len(ts) != cursorDigits || id == "" {
		return false
	}
	for _, r := range ts {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GetConversations lists the user's threads, most recent activity first.
func (m MessageRepository) GetConversations(userID string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := conversationKey(userID, "")
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			peerID := string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				msg, err := UnmarshalMessage(value)
				if err != nil {
					return err
				}
				conversations = append(conversations, domain.Conversation{
					ID:          msg.ConversationID,
					PeerID:      peerID,
					LastMessage: msg,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations, nil
}

// Count walks message keys only, values are never loaded.
func (m MessageRepository) Count() (int64, error) {
	var n int64
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = []byte(messagePrefix)
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
