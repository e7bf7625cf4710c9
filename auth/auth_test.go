package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"social-club/domain"
	"social-club/errors"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyPassw0rdIsSafe!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassw0rd!", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "plain-text")
	req.Error(err)
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"Valid request", RegisterRequest{"test@example.com", "alice", "ComplexPass123!"}, nil},
		{"Invalid email", RegisterRequest{"notanemail", "alice", "ComplexPass123!"}, errors.ErrValidation},
		{"Username too short", RegisterRequest{"test@example.com", "al", "ComplexPass123!"}, errors.ErrValidation},
		{"Username with spaces", RegisterRequest{"test@example.com", "al ice", "ComplexPass123!"}, errors.ErrValidation},
		{"Password too short", RegisterRequest{"test@example.com", "alice", "Short1!"}, errors.ErrValidation},
		{"Missing digit", RegisterRequest{"test@example.com", "alice", "NoDigitPassword!"}, errors.ErrInvalidPassword},
		{"Missing special char", RegisterRequest{"test@example.com", "alice", "NoSpecialChar123"}, errors.ErrInvalidPassword},
		{"Missing uppercase", RegisterRequest{"test@example.com", "alice", "nouppercase123!"}, errors.ErrInvalidPassword},
		{"Password too long", RegisterRequest{"test@example.com", "alice", strings.Repeat("a", 73)}, errors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := ValidateRegister(tt.req)
			if tt.wantErr == nil {
				req.NoError(err)
				return
			}
			req.ErrorIs(err, tt.wantErr)
		})
	}
}

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager("a-test-secret-that-is-long-enough", time.Hour, "social-club")

	t.Run("should round trip user and roles", func(t *testing.T) {
		req := require.New(t)
		token, err := manager.Generate("user-123", []string{"user", "admin"})
		req.NoError(err)

		claims, err := manager.Validate(token)
		req.NoError(err)
		req.Equal("user-123", claims.UserID)
		req.True(claims.HasRole(domain.RoleAdmin))
	})

	t.Run("should reject an empty token", func(t *testing.T) {
		_, err := manager.Validate("")
		require.ErrorIs(t, err, errors.ErrMissingToken)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		other := NewTokenManager("another-secret-entirely", time.Hour, "social-club")
		token, err := other.Generate("user-123", nil)
		req.NoError(err)

		_, err = manager.Validate(token)
		req.ErrorIs(err, errors.ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		expired := NewTokenManager("a-test-secret-that-is-long-enough", time.Hour, "social-club")
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.Generate("user-123", nil)
		req.NoError(err)

		_, err = manager.Validate(token)
		req.ErrorIs(err, errors.ErrInvalidToken)
	})

	t.Run("should reject another issuer", func(t *testing.T) {
		req := require.New(t)
		other := NewTokenManager("a-test-secret-that-is-long-enough", time.Hour, "someone-else")
		token, err := other.Generate("user-123", nil)
		req.NoError(err)

		_, err = manager.Validate(token)
		req.ErrorIs(err, errors.ErrInvalidToken)
	})
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	req.Equal("abc", BearerToken("Bearer abc"))
	req.Equal("abc", BearerToken("bearer   abc "))
	req.Empty(BearerToken("Basic abc"))
	req.Empty(BearerToken("abc"))
	req.Empty(BearerToken(""))
}

func TestAuthorizer(t *testing.T) {
	ctx := context.Background()
	authorizer, err := NewDefaultAuthorizer(ctx)
	require.NoError(t, err)

	owner := Subject{ID: "u1", Roles: []string{"user"}}
	stranger := Subject{ID: "u2", Roles: []string{"user"}}
	admin := Subject{ID: "u3", Roles: []string{"user", "admin"}}

	tests := []struct {
		name    string
		subject Subject
		action  Action
		owner   string
		allowed bool
	}{
		{"owner deletes own post", owner, ActionDeletePost, "u1", true},
		{"stranger cannot delete", stranger, ActionDeletePost, "u1", false},
		{"admin deletes any post", admin, ActionDeletePost, "u1", true},
		{"owner updates application", owner, ActionUpdateApplication, "u1", true},
		{"stranger cannot list applications", stranger, ActionListApplications, "u1", false},
		{"anonymous never owns", Subject{}, ActionCreateJob, "", false},
		{"analytics needs admin", owner, ActionReadAnalytics, "", false},
		{"admin reads analytics", admin, ActionReadAnalytics, "", true},
		{"unknown action is denied", admin, Action("post.publish"), "u3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			allowed, err := authorizer.Allow(ctx, tt.subject, tt.action, tt.owner)
			req.NoError(err)
			req.Equal(tt.allowed, allowed)
		})
	}
}

func TestAuthorizer_Invalid_Policy(t *testing.T) {
	_, err := NewAuthorizer(context.Background(), "package broken\nallow {")
	require.Error(t, err)
}
