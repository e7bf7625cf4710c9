package services

import (
	"bytes"
	"context"
	"testing"

	"social-club/errors"
	"social-club/mocks"
	"social-club/repositories"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type userFixture struct {
	users   *mocks.MockIUserRepository
	search  *mocks.MockISearchIndex
	avatars *mocks.MockAvatarStore
	service *UserService
}

func newUserFixture(t *testing.T) userFixture {
	ctrl := gomock.NewController(t)
	f := userFixture{
		users:   mocks.NewMockIUserRepository(ctrl),
		search:  mocks.NewMockISearchIndex(ctrl),
		avatars: mocks.NewMockAvatarStore(ctrl),
	}
	f.service = NewUserService(newLiveRuntime().log, f.users, f.search, f.avatars)
	return f
}

func TestUserService_UpdateProfile_Reindexes(t *testing.T) {
	req := require.New(t)
	f := newUserFixture(t)
	updated := repositories.User{ID: "u1", Username: "alice", Bio: "Gopher"}
	f.users.EXPECT().UpdateProfile(gomock.Any(), "u1", repositories.ProfileChanges{Bio: lo.ToPtr("Gopher")}).Return(updated, nil)
	f.search.EXPECT().IndexUser(updated).Return(nil)

	user, err := f.service.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{Bio: lo.ToPtr("  Gopher ")})

	req.NoError(err)
	req.Equal("Gopher", user.Bio)
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	f := newUserFixture(t)
	f.users.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{Username: lo.ToPtr("a b")})

	require.ErrorIs(t, err, errors.ErrValidation)
}

func TestUserService_UploadAvatar(t *testing.T) {
	req := require.New(t)
	f := newUserFixture(t)
	body := bytes.NewReader([]byte("image"))
	f.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(repositories.User{ID: "u1"}, nil)
	f.avatars.EXPECT().Save(gomock.Any(), "u1", body).Return("/avatars/u1.png", nil)
	f.users.EXPECT().UpdateProfile(gomock.Any(), "u1", repositories.ProfileChanges{AvatarURL: lo.ToPtr("/avatars/u1.png")}).
		Return(repositories.User{ID: "u1", AvatarURL: "/avatars/u1.png"}, nil)

	user, err := f.service.UploadAvatar(context.Background(), "u1", body)

	req.NoError(err)
	req.Equal("/avatars/u1.png", user.AvatarURL)
}

func TestUserService_UploadAvatar_Rejected(t *testing.T) {
	f := newUserFixture(t)
	f.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(repositories.User{ID: "u1"}, nil)
	f.avatars.EXPECT().Save(gomock.Any(), "u1", gomock.Any()).Return("", errors.ErrUnsupportedAvatar)
	f.users.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.UploadAvatar(context.Background(), "u1", bytes.NewReader(nil))

	require.ErrorIs(t, err, errors.ErrUnsupportedAvatar)
}

func TestUserService_SearchUsers_Keeps_Relevance_Order(t *testing.T) {
	req := require.New(t)
	f := newUserFixture(t)
	f.search.EXPECT().Search(gomock.Any(), repositories.KindUser, "go", 5).Return([]string{"u2", "u1"}, nil)
	f.users.EXPECT().GetUsersByIDs(gomock.Any(), []string{"u2", "u1"}).
		Return([]repositories.User{{ID: "u1", Username: "alice"}, {ID: "u2", Username: "bob"}}, nil)

	users, err := f.service.SearchUsers(context.Background(), "go", 5)

	req.NoError(err)
	req.Equal([]string{"u2", "u1"}, lo.Map(users, func(u repositories.User, _ int) string { return u.ID }))
}
