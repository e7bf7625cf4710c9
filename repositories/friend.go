//go:generate go run go.uber.org/mock/mockgen -source=friend.go -destination=../mocks/mock_friend_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"time"

	"social-club/domain"
	"social-club/errors"

	"gorm.io/gorm"
)

type IFriendRepository interface {
	CreateRequest(ctx context.Context, request *FriendRequest) error
	GetRequest(ctx context.Context, id string) (FriendRequest, error)
	FindBetween(ctx context.Context, a, b string) ([]FriendRequest, error)
	Respond(ctx context.Context, id string, status domain.FriendRequestStatus, at time.Time) (FriendRequest, error)
	ListPending(ctx context.Context, recipientID string) ([]FriendRequest, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) IFriendRepository {
	return &FriendRepository{db: db}
}

// CreateRequest stores a PENDING request. A live request between the same two
// users, in either direction, makes it fail with ErrRequestAlreadyPending or
// ErrAlreadyFriends.
func (r *FriendRepository) CreateRequest(ctx context.Context, request *FriendRequest) error {
	key := pairKey(request.SenderID, request.RecipientID)
	request.PairKey = &key
	err := r.db.WithContext(ctx).Create(request).Error
	if !stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	request.PairKey = nil
	var live FriendRequest
	if err := r.db.WithContext(ctx).Where("pair_key = ?", key).First(&live).Error; err != nil {
		return errors.ErrRequestAlreadyPending
	}
	if live.Status == domain.FriendRequestAccepted {
		return errors.ErrAlreadyFriends
	}
	return errors.ErrRequestAlreadyPending
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

func (r *FriendRepository) GetRequest(ctx context.Context, id string) (FriendRequest, error) {
	var request FriendRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return FriendRequest{}, errors.ErrFriendRequestNotFound
	}
	return request, err
}

// FindBetween returns every request exchanged by a and b, in either direction.
func (r *FriendRepository) FindBetween(ctx context.Context, a, b string) ([]FriendRequest, error) {
	var requests []FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// Respond moves a PENDING request to status. Concurrent responses are serialized
// by the status guard: only the first one succeeds.
func (r *FriendRepository) Respond(ctx context.Context, id string, status domain.FriendRequestStatus, at time.Time) (FriendRequest, error) {
	var request FriendRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&request).Error; err != nil {
			return err
		}
		updates := map[string]any{"status": status, "responded_at": at}
		if status != domain.FriendRequestAccepted {
			updates["pair_key"] = nil
		}
		res := tx.Model(&FriendRequest{}).
			Where("id = ? AND status = ?", id, domain.FriendRequestPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrRequestNotPending
		}
		request.Status = status
		request.RespondedAt = &at
		if status != domain.FriendRequestAccepted {
			request.PairKey = nil
		}
		return nil
	})
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return FriendRequest{}, errors.ErrFriendRequestNotFound
	}
	return request, err
}

func (r *FriendRepository) ListPending(ctx context.Context, recipientID string) ([]FriendRequest, error) {
	var requests []FriendRequest
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, domain.FriendRequestPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ListFriendIDs derives friendships from accepted requests.
func (r *FriendRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var requests []FriendRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND (sender_id = ? OR recipient_id = ?)", domain.FriendRequestAccepted, userID, userID).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		if req.SenderID == userID {
			ids = append(ids, req.RecipientID)
		} else {
			ids = append(ids, req.SenderID)
		}
	}
	return ids, nil
}

func (r *FriendRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&FriendRequest{}).Count(&n).Error
	return n, err
}
