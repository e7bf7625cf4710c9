package services

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"social-club/auth"
	"social-club/repositories"
	"social-club/storage"
)

type IUserService interface {
	GetUser(ctx context.Context, userID string) (repositories.User, error)
	UpdateProfile(ctx context.Context, userID string, request UpdateProfileRequest) (repositories.User, error)
	UploadAvatar(ctx context.Context, userID string, r io.Reader) (repositories.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]repositories.User, error)
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=32,alphanum"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

type UserService struct {
	log     *slog.Logger
	users   repositories.IUserRepository
	search  repositories.ISearchIndex
	avatars storage.AvatarStore
}

func NewUserService(log *slog.Logger, users repositories.IUserRepository,
	search repositories.ISearchIndex, avatars storage.AvatarStore) *UserService {
	return &UserService{log: log, users: users, search: search, avatars: avatars}
}

func (s *UserService) GetUser(ctx context.Context, userID string) (repositories.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, request UpdateProfileRequest) (repositories.User, error) {
	if request.Bio != nil {
		bio := strings.TrimSpace(*request.Bio)
		request.Bio = &bio
	}
	if err := auth.Validate(request); err != nil {
		return repositories.User{}, err
	}
	user, err := s.users.UpdateProfile(ctx, userID, repositories.ProfileChanges{
		Username: request.Username,
		Bio:      request.Bio,
	})
	if err != nil {
		return repositories.User{}, err
	}
	s.reindex(user)
	return user, nil
}

func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader) (repositories.User, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return repositories.User{}, err
	}
	url, err := s.avatars.Save(ctx, userID, r)
	if err != nil {
		return repositories.User{}, err
	}
	return s.users.UpdateProfile(ctx, userID, repositories.ProfileChanges{AvatarURL: &url})
}

// SearchUsers returns matching profiles ordered by relevance.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]repositories.User, error) {
	ids, err := s.search.Search(ctx, repositories.KindUser, query, limit)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	found, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repositories.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	users := make([]repositories.User, 0, len(found))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *UserService) reindex(user repositories.User) {
	if err := s.search.IndexUser(user); err != nil {
		s.log.Warn("Failed to index user", "user_id", user.ID, "error", err)
	}
}
