//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"social-club/errors"

	"gorm.io/gorm"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]User, error)
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (User, error)
	MarkEmailVerified(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ProfileChanges only applies non nil fields.
type ProfileChanges struct {
	Username  *string
	Bio       *string
	AvatarURL *string
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists a new account.
// A duplicated email or username is reported as ErrUserAlreadyExists.
func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("username").Find(&users).Error
	return users, err
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (User, error) {
	updates := map[string]any{}
	if changes.Username != nil {
		updates["username"] = *changes.Username
	}
	if changes.Bio != nil {
		updates["bio"] = *changes.Bio
	}
	if changes.AvatarURL != nil {
		updates["avatar_url"] = *changes.AvatarURL
	}

	var user User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return User{}, errors.ErrUserNotFound
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return User{}, errors.ErrUserAlreadyExists
	case err != nil:
		return User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Updates(map[string]any{"email_verified": true, "verification_code": ""})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}
