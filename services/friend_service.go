package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"social-club/contract"
	"social-club/domain"
	"social-club/domain/event"
	"social-club/errors"
	"social-club/repositories"

	"github.com/google/uuid"
)

type IFriendService interface {
	SendRequest(ctx context.Context, senderID, recipientID string) (repositories.FriendRequest, error)
	Accept(ctx context.Context, userID, requestID string) (repositories.FriendRequest, error)
	Reject(ctx context.Context, userID, requestID string) (repositories.FriendRequest, error)
	PendingRequests(ctx context.Context, userID string) ([]repositories.FriendRequest, error)
	Friends(ctx context.Context, userID string) ([]repositories.User, error)
}

type FriendService struct {
	log     *slog.Logger
	users   repositories.IUserRepository
	friends repositories.IFriendRepository
	bus     contract.IEventBus
	now     func() time.Time
}

func NewFriendService(log *slog.Logger, users repositories.IUserRepository,
	friends repositories.IFriendRepository, bus contract.IEventBus) *FriendService {
	return &FriendService{
		log:     log,
		users:   users,
		friends: friends,
		bus:     bus,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID string) (repositories.FriendRequest, error) {
	if senderID == recipientID {
		return repositories.FriendRequest{}, errors.ErrSelfRequest
	}
	if _, err := s.users.GetUserByID(ctx, recipientID); err != nil {
		return repositories.FriendRequest{}, err
	}
	existing, err := s.friends.FindBetween(ctx, senderID, recipientID)
	if err != nil {
		return repositories.FriendRequest{}, err
	}
	for _, r := range existing {
		switch r.Status {
		case domain.FriendRequestAccepted:
			return repositories.FriendRequest{}, errors.ErrAlreadyFriends
		case domain.FriendRequestPending:
			return repositories.FriendRequest{}, errors.ErrRequestAlreadyPending
		}
	}

	request := repositories.FriendRequest{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      domain.FriendRequestPending,
		CreatedAt:   s.now(),
	}
	if err := s.friends.CreateRequest(ctx, &request); err != nil {
		if stderrors.Is(err, errors.ErrRequestAlreadyPending) || stderrors.Is(err, errors.ErrAlreadyFriends) {
			return repositories.FriendRequest{}, err
		}
		return repositories.FriendRequest{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	s.bus.Publish(ctx, event.New(event.FriendRequestSent, recipientID, senderID, map[string]string{
		event.MetaRequestID: request.ID,
	}))
	return request, nil
}

func (s *FriendService) Accept(ctx context.Context, userID, requestID string) (repositories.FriendRequest, error) {
	request, err := s.respond(ctx, userID, requestID, domain.FriendRequestAccepted)
	if err != nil {
		return repositories.FriendRequest{}, err
	}
	s.bus.Publish(ctx, event.New(event.FriendRequestAccepted, request.SenderID, userID, map[string]string{
		event.MetaRequestID: request.ID,
	}))
	return request, nil
}

// Reject never notifies the sender.
func (s *FriendService) Reject(ctx context.Context, userID, requestID string) (repositories.FriendRequest, error) {
	return s.respond(ctx, userID, requestID, domain.FriendRequestRejected)
}

// respond only lets the recipient answer a request.
func (s *FriendService) respond(ctx context.Context, userID, requestID string, status domain.FriendRequestStatus) (repositories.FriendRequest, error) {
	request, err := s.friends.GetRequest(ctx, requestID)
	if err != nil {
		return repositories.FriendRequest{}, err
	}
	if request.RecipientID != userID {
		return repositories.FriendRequest{}, errors.ErrForbidden
	}
	return s.friends.Respond(ctx, requestID, status, s.now())
}

func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]repositories.FriendRequest, error) {
	return s.friends.ListPending(ctx, userID)
}

func (s *FriendService) Friends(ctx context.Context, userID string) ([]repositories.User, error) {
	ids, err := s.friends.ListFriendIDs(ctx, userID)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return s.users.GetUsersByIDs(ctx, ids)
}
