package rest

import (
	"time"

	"social-club/domain"
	"social-club/repositories"

	"github.com/samber/lo"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileResponse is what the owner sees about their own account.
type ProfileResponse struct {
	UserResponse `json:",inline"`

	Email         string   `json:"email"`
	Roles         []string `json:"roles"`
	EmailVerified bool     `json:"emailVerified"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type FriendRequestResponse struct {
	ID          string                     `json:"id"`
	SenderID    string                     `json:"senderId"`
	RecipientID string                     `json:"recipientId"`
	Status      domain.FriendRequestStatus `json:"status"`
	CreatedAt   time.Time                  `json:"createdAt"`
	RespondedAt *time.Time                 `json:"respondedAt,omitempty"`
}

type CompanyResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Open        bool      `json:"open"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ApplicationResponse struct {
	ID          string                   `json:"id"`
	JobID       string                   `json:"jobId"`
	ApplicantID string                   `json:"applicantId"`
	CoverLetter string                   `json:"coverLetter"`
	Status      domain.ApplicationStatus `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

type MessageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor *string           `json:"nextCursor,omitempty"`
}

type ConversationResponse struct {
	ID          string          `json:"id"`
	PeerID      string          `json:"peerId"`
	LastMessage MessageResponse `json:"lastMessage"`
}

func toUser(u repositories.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Bio: u.Bio, Avatar: u.AvatarURL, CreatedAt: u.CreatedAt}
}

func toUsers(users []repositories.User) []UserResponse {
	return lo.Map(users, func(u repositories.User, _ int) UserResponse { return toUser(u) })
}

func toProfile(u repositories.User) ProfileResponse {
	return ProfileResponse{UserResponse: toUser(u), Email: u.Email, Roles: u.Roles, EmailVerified: u.EmailVerified}
}

func toPost(p repositories.Post) PostResponse {
	return PostResponse{ID: p.ID, AuthorID: p.AuthorID, Content: p.Content, Language: p.Language, CreatedAt: p.CreatedAt}
}

func toPosts(posts []repositories.Post) []PostResponse {
	return lo.Map(posts, func(p repositories.Post, _ int) PostResponse { return toPost(p) })
}

func toComment(c repositories.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID, Content: c.Content, CreatedAt: c.CreatedAt}
}

func toComments(comments []repositories.Comment) []CommentResponse {
	return lo.Map(comments, func(c repositories.Comment, _ int) CommentResponse { return toComment(c) })
}

func toFriendRequest(r repositories.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:          r.ID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		RespondedAt: r.RespondedAt,
	}
}

func toFriendRequests(requests []repositories.FriendRequest) []FriendRequestResponse {
	return lo.Map(requests, func(r repositories.FriendRequest, _ int) FriendRequestResponse { return toFriendRequest(r) })
}

func toCompany(c repositories.Company) CompanyResponse {
	return CompanyResponse{ID: c.ID, OwnerID: c.OwnerID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func toJob(j repositories.Job) JobResponse {
	return JobResponse{ID: j.ID, CompanyID: j.CompanyID, Title: j.Title, Description: j.Description, Open: j.Open, CreatedAt: j.CreatedAt}
}

func toJobs(jobs []repositories.Job) []JobResponse {
	return lo.Map(jobs, func(j repositories.Job, _ int) JobResponse { return toJob(j) })
}

func toApplication(a repositories.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		CoverLetter: a.CoverLetter,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toApplications(applications []repositories.Application) []ApplicationResponse {
	return lo.Map(applications, func(a repositories.Application, _ int) ApplicationResponse { return toApplication(a) })
}

func toMessage(m domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:          m.ID.String(),
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

func toMessages(messages []domain.ChatMessage) []MessageResponse {
	return lo.Map(messages, func(m domain.ChatMessage, _ int) MessageResponse { return toMessage(m) })
}

func toConversations(conversations []domain.Conversation) []ConversationResponse {
	return lo.Map(conversations, func(c domain.Conversation, _ int) ConversationResponse {
		return ConversationResponse{ID: c.ID.String(), PeerID: c.PeerID, LastMessage: toMessage(c.LastMessage)}
	})
}
