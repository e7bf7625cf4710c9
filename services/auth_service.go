package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"social-club/auth"
	"social-club/domain"
	"social-club/errors"
	"social-club/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IAuthService interface {
	Register(ctx context.Context, request auth.RegisterRequest) (repositories.User, error)
	Login(ctx context.Context, request auth.LoginRequest) (Token, error)
	Verify(ctx context.Context, request auth.VerifyRequest) error
}

type Token string

func (t Token) String() string {
	return string(t)
}

type AuthService struct {
	log         *slog.Logger
	users       repositories.IUserRepository
	search      repositories.ISearchIndex
	tokens      *auth.TokenManager
	mailer      Mailer
	adminEmails []string
}

// NewAuthService builds the account service. Accounts registered with one of adminEmails get the admin role.
func NewAuthService(log *slog.Logger, users repositories.IUserRepository, search repositories.ISearchIndex,
	tokens *auth.TokenManager, mailer Mailer, adminEmails []string) *AuthService {
	return &AuthService{
		log:    log,
		users:  users,
		search: search,
		tokens: tokens,
		mailer: mailer,
		adminEmails: lo.Map(adminEmails, func(e string, _ int) string {
			return strings.ToLower(strings.TrimSpace(e))
		}),
	}
}

func (s *AuthService) Register(ctx context.Context, request auth.RegisterRequest) (repositories.User, error) {
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	// Validation runs before any expensive hashing.
	if err := auth.ValidateRegister(request); err != nil {
		return repositories.User{}, err
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		return repositories.User{}, fmt.Errorf("hashing failed: %w", err)
	}
	code, err := verificationCode()
	if err != nil {
		return repositories.User{}, err
	}

	roles := []string{string(domain.RoleUser)}
	if lo.Contains(s.adminEmails, request.Email) {
		roles = append(roles, string(domain.RoleAdmin))
	}
	user := repositories.User{
		ID:               uuid.NewString(),
		Email:            request.Email,
		Username:         request.Username,
		PasswordHash:     hash,
		Roles:            roles,
		VerificationCode: code,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return repositories.User{}, err
	}

	if err := s.search.IndexUser(user); err != nil {
		s.log.Warn("Failed to index user", "user_id", user.ID, "error", err)
	}
	if err := s.mailer.SendVerification(ctx, user.Email, code); err != nil {
		s.log.Error("Failed to send verification code", "user_id", user.ID, "error", err)
	}
	s.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, request auth.LoginRequest) (Token, error) {
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	if err := auth.Validate(request); err != nil {
		return "", err
	}
	user, err := s.users.GetUserByEmail(ctx, request.Email)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return "", errors.ErrInvalidCredentials
		}
		return "", err
	}
	match, err := auth.ComparePassword(request.Password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return "", errors.ErrEmailNotVerified
	}

	token, err := s.tokens.Generate(user.ID, user.Roles)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}

func (s *AuthService) Verify(ctx context.Context, request auth.VerifyRequest) error {
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	if err := auth.Validate(request); err != nil {
		return err
	}
	user, err := s.users.GetUserByEmail(ctx, request.Email)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return errors.ErrInvalidVerification
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	if user.VerificationCode == "" ||
		subtle.ConstantTimeCompare([]byte(user.VerificationCode), []byte(request.Code)) != 1 {
		return errors.ErrInvalidVerification
	}
	return s.users.MarkEmailVerified(ctx, user.ID)
}

func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
