package services

import (
	"context"

	"social-club/auth"
	"social-club/contract"
	"social-club/observability"
	"social-club/repositories"
)

// Analytics is the admin dashboard snapshot.
type Analytics struct {
	Users          int64                         `json:"users"`
	Posts          int64                         `json:"posts"`
	Comments       int64                         `json:"comments"`
	Likes          int64                         `json:"likes"`
	FriendRequests int64                         `json:"friend_requests"`
	Companies      int64                         `json:"companies"`
	Jobs           int64                         `json:"jobs"`
	Applications   int64                         `json:"applications"`
	Messages       int64                         `json:"messages"`
	OnlineUsers    int                           `json:"online_users"`
	Connections    int                           `json:"connections"`
	Delivery       observability.MonitoringStats `json:"delivery"`
}

type IAnalyticsService interface {
	Snapshot(ctx context.Context, subject auth.Subject) (Analytics, error)
}

type AnalyticsService struct {
	users      repositories.IUserRepository
	posts      repositories.IPostRepository
	friends    repositories.IFriendRepository
	jobs       repositories.IJobRepository
	messages   repositories.IMessageRepository
	registry   contract.IRegistry
	monitoring *observability.MonitoringManager
	authorizer Authorizer
}

func NewAnalyticsService(users repositories.IUserRepository, posts repositories.IPostRepository,
	friends repositories.IFriendRepository, jobs repositories.IJobRepository, messages repositories.IMessageRepository,
	registry contract.IRegistry, monitoring *observability.MonitoringManager, authorizer Authorizer) *AnalyticsService {
	return &AnalyticsService{
		users:      users,
		posts:      posts,
		friends:    friends,
		jobs:       jobs,
		messages:   messages,
		registry:   registry,
		monitoring: monitoring,
		authorizer: authorizer,
	}
}

func (s *AnalyticsService) Snapshot(ctx context.Context, subject auth.Subject) (Analytics, error) {
	if err := authorize(ctx, s.authorizer, subject, auth.ActionReadAnalytics, ""); err != nil {
		return Analytics{}, err
	}

	var a Analytics
	var err error
	if a.Users, err = s.users.Count(ctx); err != nil {
		return Analytics{}, err
	}
	postCounts, err := s.posts.Counts(ctx)
	if err != nil {
		return Analytics{}, err
	}
	a.Posts, a.Comments, a.Likes = postCounts.Posts, postCounts.Comments, postCounts.Likes
	if a.FriendRequests, err = s.friends.Count(ctx); err != nil {
		return Analytics{}, err
	}
	jobCounts, err := s.jobs.Counts(ctx)
	if err != nil {
		return Analytics{}, err
	}
	a.Companies, a.Jobs, a.Applications = jobCounts.Companies, jobCounts.Jobs, jobCounts.Applications
	if a.Messages, err = s.messages.Count(); err != nil {
		return Analytics{}, err
	}

	stats := s.registry.Stats()
	a.OnlineUsers, a.Connections = stats.Users, stats.Connections
	// Counters are fresh; process stats keep the last telemetry reading.
	a.Delivery = s.monitoring.Refresh(nil)
	return a, nil
}
