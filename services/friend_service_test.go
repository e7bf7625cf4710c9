package services

import (
	"context"
	"testing"
	"time"

	"social-club/domain"
	"social-club/domain/event"
	"social-club/errors"
	"social-club/mocks"
	"social-club/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type friendFixture struct {
	users   *mocks.MockIUserRepository
	friends *mocks.MockIFriendRepository
	bus     *mocks.MockIEventBus
	service *FriendService
}

func newFriendFixture(t *testing.T) friendFixture {
	ctrl := gomock.NewController(t)
	f := friendFixture{
		users:   mocks.NewMockIUserRepository(ctrl),
		friends: mocks.NewMockIFriendRepository(ctrl),
		bus:     mocks.NewMockIEventBus(ctrl),
	}
	f.service = NewFriendService(newLiveRuntime().log, f.users, f.friends, f.bus)
	return f
}

func TestFriendService_SendRequest(t *testing.T) {
	tests := []struct {
		description string
		existing    []repositories.FriendRequest
		wantErr     error
	}{
		{"Should create a request between strangers", nil, nil},
		{"Should allow a new request after a rejection", []repositories.FriendRequest{{Status: domain.FriendRequestRejected}}, nil},
		{"Should refuse when already friends", []repositories.FriendRequest{{Status: domain.FriendRequestAccepted}}, errors.ErrAlreadyFriends},
		{"Should refuse a duplicate pending request", []repositories.FriendRequest{{Status: domain.FriendRequestPending}}, errors.ErrRequestAlreadyPending},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			f := newFriendFixture(t)
			f.users.EXPECT().GetUserByID(gomock.Any(), "B").Return(repositories.User{ID: "B"}, nil)
			f.friends.EXPECT().FindBetween(gomock.Any(), "A", "B").Return(tt.existing, nil)

			if tt.wantErr == nil {
				var published event.DomainEvent
				f.friends.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(nil)
				f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evt event.DomainEvent) {
					published = evt
				})

				request, err := f.service.SendRequest(context.Background(), "A", "B")

				req.NoError(err)
				req.Equal(domain.FriendRequestPending, request.Status)
				req.Equal(event.FriendRequestSent, published.Kind)
				req.Equal("B", published.TargetUserID)
				req.Equal(request.ID, published.Metadata[event.MetaRequestID])
				return
			}

			f.friends.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Times(0)
			f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
			_, err := f.service.SendRequest(context.Background(), "A", "B")
			req.ErrorIs(err, tt.wantErr)
		})
	}
}

func TestFriendService_SendRequest_Lost_Race(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture(t)

	// Given the check sees no request but the store already holds a crossed one
	f.users.EXPECT().GetUserByID(gomock.Any(), "B").Return(repositories.User{ID: "B"}, nil)
	f.friends.EXPECT().FindBetween(gomock.Any(), "A", "B").Return(nil, nil)
	f.friends.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(errors.ErrRequestAlreadyPending)
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// When A sends the request
	_, err := f.service.SendRequest(context.Background(), "A", "B")

	// Then the conflict is reported as is
	req.ErrorIs(err, errors.ErrRequestAlreadyPending)
	req.NotErrorIs(err, errors.ErrPersistence)
}

func TestFriendService_SendRequest_To_Self(t *testing.T) {
	f := newFriendFixture(t)
	f.users.EXPECT().GetUserByID(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.SendRequest(context.Background(), "A", "A")

	require.ErrorIs(t, err, errors.ErrSelfRequest)
}

func TestFriendService_Accept_Notifies_Sender(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture(t)
	pending := repositories.FriendRequest{ID: "r1", SenderID: "A", RecipientID: "B", Status: domain.FriendRequestPending}
	accepted := pending
	accepted.Status = domain.FriendRequestAccepted

	var published event.DomainEvent
	f.friends.EXPECT().GetRequest(gomock.Any(), "r1").Return(pending, nil)
	f.friends.EXPECT().Respond(gomock.Any(), "r1", domain.FriendRequestAccepted, gomock.AssignableToTypeOf(time.Time{})).Return(accepted, nil)
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evt event.DomainEvent) {
		published = evt
	})

	request, err := f.service.Accept(context.Background(), "B", "r1")

	req.NoError(err)
	req.Equal(domain.FriendRequestAccepted, request.Status)
	req.Equal(event.FriendRequestAccepted, published.Kind)
	req.Equal("A", published.TargetUserID)
	req.Equal("B", published.ActorUserID)
}

func TestFriendService_Only_Recipient_Responds(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture(t)
	f.friends.EXPECT().GetRequest(gomock.Any(), "r1").
		Return(repositories.FriendRequest{ID: "r1", SenderID: "A", RecipientID: "B", Status: domain.FriendRequestPending}, nil)
	f.friends.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.Accept(context.Background(), "A", "r1")

	req.ErrorIs(err, errors.ErrForbidden)
}

func TestFriendService_Reject_Is_Silent(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture(t)
	pending := repositories.FriendRequest{ID: "r1", SenderID: "A", RecipientID: "B", Status: domain.FriendRequestPending}
	f.friends.EXPECT().GetRequest(gomock.Any(), "r1").Return(pending, nil)
	f.friends.EXPECT().Respond(gomock.Any(), "r1", domain.FriendRequestRejected, gomock.Any()).
		Return(repositories.FriendRequest{ID: "r1", Status: domain.FriendRequestRejected}, nil)
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	request, err := f.service.Reject(context.Background(), "B", "r1")

	req.NoError(err)
	req.Equal(domain.FriendRequestRejected, request.Status)
}

func TestFriendService_Friends(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture(t)
	f.friends.EXPECT().ListFriendIDs(gomock.Any(), "A").Return([]string{"B", "C"}, nil)
	f.users.EXPECT().GetUsersByIDs(gomock.Any(), []string{"B", "C"}).
		Return([]repositories.User{{ID: "B"}, {ID: "C"}}, nil)

	friends, err := f.service.Friends(context.Background(), "A")

	req.NoError(err)
	req.Len(friends, 2)
}
