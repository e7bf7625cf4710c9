package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"social-club/auth"
	"social-club/contract"
	"social-club/domain/event"
	"social-club/errors"
	"social-club/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

const (
	maxPostLength    = 5000
	maxCommentLength = 2000
	excerptLength    = 80
	defaultPageSize  = 20
)

type IPostService interface {
	CreatePost(ctx context.Context, authorID, content string) (repositories.Post, error)
	ListPosts(ctx context.Context, authorID string, limit int) ([]repositories.Post, error)
	SearchPosts(ctx context.Context, query string, limit int) ([]repositories.Post, error)
	DeletePost(ctx context.Context, subject auth.Subject, postID string) error
	LikePost(ctx context.Context, userID, postID string) error
	UnlikePost(ctx context.Context, userID, postID string) error
	CommentPost(ctx context.Context, userID, postID, content string) (repositories.Comment, error)
	ListComments(ctx context.Context, postID string) ([]repositories.Comment, error)
}

type PostService struct {
	log        *slog.Logger
	posts      repositories.IPostRepository
	search     repositories.ISearchIndex
	bus        contract.IEventBus
	authorizer Authorizer
}

func NewPostService(log *slog.Logger, posts repositories.IPostRepository, search repositories.ISearchIndex,
	bus contract.IEventBus, authorizer Authorizer) *PostService {
	return &PostService{log: log, posts: posts, search: search, bus: bus, authorizer: authorizer}
}

func validateText(content string, max int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > max {
		return "", errors.ErrContentTooLong
	}
	return content, nil
}

// detectLanguage returns an ISO 639-1 code, or "" when the guess is not reliable.
func detectLanguage(content string) string {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

func (s *PostService) CreatePost(ctx context.Context, authorID, content string) (repositories.Post, error) {
	content, err := validateText(content, maxPostLength)
	if err != nil {
		return repositories.Post{}, err
	}
	post := repositories.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		Language:  detectLanguage(content),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.CreatePost(ctx, &post); err != nil {
		return repositories.Post{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if err := s.search.IndexPost(post); err != nil {
		s.log.Warn("Failed to index post", "post_id", post.ID, "error", err)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, authorID string, limit int) ([]repositories.Post, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.posts.ListPosts(ctx, authorID, limit)
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit int) ([]repositories.Post, error) {
	ids, err := s.search.Search(ctx, repositories.KindPost, query, limit)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return s.posts.GetPostsByIDs(ctx, ids)
}

func (s *PostService) DeletePost(ctx context.Context, subject auth.Subject, postID string) error {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, s.authorizer, subject, auth.ActionDeletePost, post.AuthorID); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	if err := s.search.DeletePost(postID); err != nil {
		s.log.Warn("Failed to remove post from index", "post_id", postID, "error", err)
	}
	return nil
}

// LikePost is idempotent: liking twice notifies the author once.
func (s *PostService) LikePost(ctx context.Context, userID, postID string) error {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	created, err := s.posts.AddLike(ctx, postID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if created {
		s.bus.Publish(ctx, event.New(event.PostLiked, post.AuthorID, userID, map[string]string{
			event.MetaPostID: post.ID,
		}))
	}
	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, userID, postID string) error {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return err
	}
	_, err := s.posts.RemoveLike(ctx, postID, userID)
	return err
}

func (s *PostService) CommentPost(ctx context.Context, userID, postID, content string) (repositories.Comment, error) {
	content, err := validateText(content, maxCommentLength)
	if err != nil {
		return repositories.Comment{}, err
	}
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return repositories.Comment{}, err
	}
	comment := repositories.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.AddComment(ctx, &comment); err != nil {
		return repositories.Comment{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	s.bus.Publish(ctx, event.New(event.PostCommented, post.AuthorID, userID, map[string]string{
		event.MetaPostID:    post.ID,
		event.MetaCommentID: comment.ID,
		event.MetaExcerpt:   excerpt(content),
	}))
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string) ([]repositories.Comment, error) {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength-1]) + "…"
}
