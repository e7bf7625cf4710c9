package repositories

import (
	"time"

	"social-club/domain"

	"gorm.io/gorm"
)

// User is the persisted account. Users are never hard-deleted.
type User struct {
	ID               string   `gorm:"primaryKey"`
	Email            string   `gorm:"uniqueIndex;not null"`
	Username         string   `gorm:"uniqueIndex;not null"`
	PasswordHash     string   `gorm:"not null"`
	Roles            []string `gorm:"serializer:json"`
	Bio              string
	AvatarURL        string
	EmailVerified    bool `gorm:"not null;default:false"`
	VerificationCode string
	CreatedAt        time.Time `gorm:"not null;index"`
	UpdatedAt        time.Time
}

func (u User) HasRole(role domain.Role) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

func (u User) Actor() domain.Actor {
	return domain.Actor{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

type Post struct {
	ID        string `gorm:"primaryKey"`
	AuthorID  string `gorm:"not null;index"`
	Content   string `gorm:"not null"`
	Language  string
	CreatedAt time.Time      `gorm:"not null;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Comment struct {
	ID        string    `gorm:"primaryKey"`
	PostID    string    `gorm:"not null;index"`
	AuthorID  string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// Like is unique per (post, user).
type Like struct {
	PostID    string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// FriendRequest holds PairKey while PENDING or ACCEPTED, so at most one live
// request exists per pair of users whatever its direction. Rejection clears it.
type FriendRequest struct {
	ID          string                     `gorm:"primaryKey"`
	SenderID    string                     `gorm:"not null;index"`
	RecipientID string                     `gorm:"not null;index"`
	Status      domain.FriendRequestStatus `gorm:"not null;index"`
	PairKey     *string                    `gorm:"uniqueIndex"`
	CreatedAt   time.Time                  `gorm:"not null"`
	RespondedAt *time.Time
}

type Company struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	CreatedAt   time.Time
}

type Job struct {
	ID          string `gorm:"primaryKey"`
	CompanyID   string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Open        bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// Application is unique per (job, applicant).
type Application struct {
	ID          string                   `gorm:"primaryKey"`
	JobID       string                   `gorm:"not null;uniqueIndex:idx_job_applicant"`
	ApplicantID string                   `gorm:"not null;uniqueIndex:idx_job_applicant"`
	CoverLetter string                   `gorm:"not null"`
	Status      domain.ApplicationStatus `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
