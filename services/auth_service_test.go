package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"social-club/auth"
	"social-club/errors"
	"social-club/mocks"
	"social-club/repositories"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	users   *mocks.MockIUserRepository
	search  *mocks.MockISearchIndex
	mailer  *mocks.MockMailer
	tokens  *auth.TokenManager
	service *AuthService
}

func newAuthFixture(t *testing.T, adminEmails ...string) authFixture {
	ctrl := gomock.NewController(t)
	f := authFixture{
		users:  mocks.NewMockIUserRepository(ctrl),
		search: mocks.NewMockISearchIndex(ctrl),
		mailer: mocks.NewMockMailer(ctrl),
		tokens: auth.NewTokenManager("a-test-secret-that-is-long-enough", time.Hour, "social-club"),
	}
	f.service = NewAuthService(logs.GetLoggerFromLevel(slog.LevelDebug), f.users, f.search, f.tokens, f.mailer, adminEmails)
	return f
}

func TestAuthService_Register(t *testing.T) {
	t.Run("should register and send a verification code", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		password := "ComplexPass123!"

		var created *repositories.User
		var sentCode string
		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *repositories.User) error {
			created = u
			return nil
		}).Times(1)
		f.search.EXPECT().IndexUser(gomock.Any()).Return(nil)
		f.mailer.EXPECT().SendVerification(gomock.Any(), "test@example.com", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, code string) error {
				sentCode = code
				return nil
			})

		user, err := f.service.Register(context.Background(), auth.RegisterRequest{
			Email: " Test@Example.com ", Username: "tester", Password: password,
		})

		req.NoError(err)
		req.NotEmpty(user.ID)
		req.Equal("test@example.com", created.Email)
		req.NotEqual(password, created.PasswordHash)
		req.Equal([]string{"user"}, created.Roles)
		req.False(created.EmailVerified)
		req.Len(sentCode, 6)
		req.Equal(created.VerificationCode, sentCode)
	})

	t.Run("should grant admin to configured emails", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t, "Boss@Example.com")
		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
		f.search.EXPECT().IndexUser(gomock.Any()).Return(nil)
		f.mailer.EXPECT().SendVerification(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		user, err := f.service.Register(context.Background(), auth.RegisterRequest{
			Email: "boss@example.com", Username: "boss", Password: "ComplexPass123!",
		})

		req.NoError(err)
		req.Equal([]string{"user", "admin"}, user.Roles)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.service.Register(context.Background(), auth.RegisterRequest{
			Email: "test@example.com", Username: "tester", Password: "onlylowercaseletters",
		})

		req.ErrorIs(err, errors.ErrInvalidPassword)
	})

	t.Run("should fail when user already exists", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(errors.ErrUserAlreadyExists)
		f.mailer.EXPECT().SendVerification(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.service.Register(context.Background(), auth.RegisterRequest{
			Email: "dup@example.com", Username: "dup", Password: "ComplexPass123!",
		})

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	password := "Secret123456!"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	t.Run("should issue a token for a verified user", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "user@example.com").Return(repositories.User{
			ID: "uuid-123", Email: "user@example.com", PasswordHash: hash, Roles: []string{"user"}, EmailVerified: true,
		}, nil)

		token, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "user@example.com", Password: password})

		req.NoError(err)
		claims, err := f.tokens.Validate(token.String())
		req.NoError(err)
		req.Equal("uuid-123", claims.UserID)
	})

	t.Run("should refuse an unverified email", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "user@example.com").Return(repositories.User{
			ID: "uuid-123", PasswordHash: hash,
		}, nil)

		_, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "user@example.com", Password: password})

		req.ErrorIs(err, errors.ErrEmailNotVerified)
	})

	t.Run("should return invalid credentials on a wrong password", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "user@example.com").Return(repositories.User{
			PasswordHash: hash, EmailVerified: true,
		}, nil)

		_, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "user@example.com", Password: "WrongPassword123!"})

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "unknown@example.com").Return(repositories.User{}, errors.ErrUserNotFound)

		_, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "unknown@example.com", Password: "anyPassword"})

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_Verify(t *testing.T) {
	t.Run("should mark the email as verified", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "user@example.com").
			Return(repositories.User{ID: "u1", VerificationCode: "123456"}, nil)
		f.users.EXPECT().MarkEmailVerified(gomock.Any(), "u1").Return(nil)

		req.NoError(f.service.Verify(context.Background(), auth.VerifyRequest{Email: "user@example.com", Code: "123456"}))
	})

	t.Run("should reject a wrong code", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "user@example.com").
			Return(repositories.User{ID: "u1", VerificationCode: "123456"}, nil)
		f.users.EXPECT().MarkEmailVerified(gomock.Any(), gomock.Any()).Times(0)

		err := f.service.Verify(context.Background(), auth.VerifyRequest{Email: "user@example.com", Code: "654321"})

		req.ErrorIs(err, errors.ErrInvalidVerification)
	})

	t.Run("should reject a malformed code before any lookup", func(t *testing.T) {
		req := require.New(t)
		f := newAuthFixture(t)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Times(0)

		err := f.service.Verify(context.Background(), auth.VerifyRequest{Email: "user@example.com", Code: "12ab"})

		req.ErrorIs(err, errors.ErrValidation)
	})
}
