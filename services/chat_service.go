package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"social-club/contract"
	"social-club/domain"
	"social-club/errors"
	"social-club/observability"
	"social-club/protocol"
	"social-club/repositories"

	"github.com/google/uuid"
)

type IChatService interface {
	SendMessage(ctx context.Context, senderID, recipientID, content string) (domain.ChatMessage, error)
	History(ctx context.Context, userID, peerID string, cursor *string) ([]domain.ChatMessage, *string, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
}

type ChatService struct {
	log              *slog.Logger
	users            repositories.IUserRepository
	messages         repositories.IMessageRepository
	deliverer        contract.IDeliverer
	censor           Censor
	monitoring       *observability.MonitoringManager
	maxContentLength int

	clockMu sync.Mutex
	last    time.Time
	now     func() time.Time
}

// NewChatService builds the chat channel. censor may be nil to disable moderation.
func NewChatService(log *slog.Logger, users repositories.IUserRepository, messages repositories.IMessageRepository,
	deliverer contract.IDeliverer, censor Censor, monitoring *observability.MonitoringManager, maxContentLength int) *ChatService {
	return &ChatService{
		log:              log,
		users:            users,
		messages:         messages,
		deliverer:        deliverer,
		censor:           censor,
		monitoring:       monitoring,
		maxContentLength: maxContentLength,
		now:              time.Now,
	}
}

// SendMessage validates, persists then pushes a direct message.
// Nothing is pushed unless the message is stored. The sender's other devices are not echoed.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID, content string) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return domain.ChatMessage{}, errors.ErrEmptyContent
	case utf8.RuneCountInString(content) > s.maxContentLength:
		return domain.ChatMessage{}, errors.ErrContentTooLong
	case strings.TrimSpace(recipientID) == "":
		return domain.ChatMessage{}, fmt.Errorf("%w: recipient is required", errors.ErrValidation)
	case recipientID == senderID:
		return domain.ChatMessage{}, errors.ErrSelfMessage
	}
	if _, err := s.users.GetUserByID(ctx, recipientID); err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return domain.ChatMessage{}, err
		}
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	if s.censor != nil {
		censored, found := s.censor.Censor(content)
		if len(found) > 0 {
			s.log.Debug("Message censored", "sender_id", senderID, "words", len(found))
		}
		content = censored
	}

	msg := domain.ChatMessage{
		ID:             uuid.New(),
		ConversationID: domain.NewConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    recipientID,
		Content:        content,
		CreatedAt:      s.nextTimestamp(),
	}
	if err := s.messages.StoreMessage(msg); err != nil {
		s.log.Error("Failed to store message", "sender_id", senderID, "error", err)
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	s.monitoring.IncrMessagesPersisted()

	frame, err := protocol.NewMessageFrame(msg)
	if err != nil {
		s.log.Error("Failed to encode message frame", "message_id", msg.ID, "error", err)
		return msg, nil
	}
	s.monitoring.IncrMessagesPushed(s.deliverer.Deliver(ctx, recipientID, frame))
	return msg, nil
}

// nextTimestamp is strictly increasing so that storage order always equals send order.
func (s *ChatService) nextTimestamp() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	now := s.now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}

func (s *ChatService) History(ctx context.Context, userID, peerID string, cursor *string) ([]domain.ChatMessage, *string, error) {
	if strings.TrimSpace(peerID) == "" {
		return nil, nil, fmt.Errorf("%w: peer is required", errors.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s.messages.GetMessages(domain.NewConversationID(userID, peerID), cursor)
}

func (s *ChatService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.messages.GetConversations(userID)
}
