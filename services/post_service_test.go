package services

import (
	"context"
	"strings"
	"testing"

	"social-club/auth"
	"social-club/domain/event"
	"social-club/errors"
	"social-club/mocks"
	"social-club/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type postFixture struct {
	posts   *mocks.MockIPostRepository
	search  *mocks.MockISearchIndex
	bus     *mocks.MockIEventBus
	service *PostService
}

func newPostFixture(t *testing.T) postFixture {
	ctrl := gomock.NewController(t)
	authorizer, err := auth.NewDefaultAuthorizer(context.Background())
	require.NoError(t, err)
	f := postFixture{
		posts:  mocks.NewMockIPostRepository(ctrl),
		search: mocks.NewMockISearchIndex(ctrl),
		bus:    mocks.NewMockIEventBus(ctrl),
	}
	f.service = NewPostService(newLiveRuntime().log, f.posts, f.search, f.bus, authorizer)
	return f
}

func TestPostService_CreatePost(t *testing.T) {
	req := require.New(t)
	f := newPostFixture(t)
	content := "  We are hiring backend engineers who love distributed systems and clean code.  "

	var indexed repositories.Post
	f.posts.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(nil)
	f.search.EXPECT().IndexPost(gomock.Any()).DoAndReturn(func(p repositories.Post) error {
		indexed = p
		return nil
	})

	post, err := f.service.CreatePost(context.Background(), "A", content)

	req.NoError(err)
	req.Equal(strings.TrimSpace(content), post.Content)
	req.Equal("en", post.Language)
	req.Equal(post.ID, indexed.ID)
}

func TestPostService_CreatePost_Rejects_Empty(t *testing.T) {
	f := newPostFixture(t)
	f.posts.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.service.CreatePost(context.Background(), "A", "   ")

	require.ErrorIs(t, err, errors.ErrEmptyContent)
}

func TestPostService_LikePost_Notifies_Once(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newPostFixture(t)
	post := repositories.Post{ID: "p1", AuthorID: "B"}

	var published []event.DomainEvent
	f.posts.EXPECT().GetPost(gomock.Any(), "p1").Return(post, nil).Times(2)
	gomock.InOrder(
		f.posts.EXPECT().AddLike(gomock.Any(), "p1", "A").Return(true, nil),
		f.posts.EXPECT().AddLike(gomock.Any(), "p1", "A").Return(false, nil),
	)
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evt event.DomainEvent) {
		published = append(published, evt)
	}).Times(1)

	req.NoError(f.service.LikePost(ctx, "A", "p1"))
	req.NoError(f.service.LikePost(ctx, "A", "p1"))

	req.Len(published, 1)
	req.Equal(event.PostLiked, published[0].Kind)
	req.Equal("B", published[0].TargetUserID)
	req.Equal("A", published[0].ActorUserID)
	req.Equal("p1", published[0].Metadata[event.MetaPostID])
}

func TestPostService_LikePost_Unknown_Post(t *testing.T) {
	f := newPostFixture(t)
	f.posts.EXPECT().GetPost(gomock.Any(), "missing").Return(repositories.Post{}, errors.ErrPostNotFound)
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	err := f.service.LikePost(context.Background(), "A", "missing")

	require.ErrorIs(t, err, errors.ErrPostNotFound)
}

func TestPostService_CommentPost_Publishes_Excerpt(t *testing.T) {
	req := require.New(t)
	f := newPostFixture(t)
	long := strings.Repeat("a", 200)

	var published event.DomainEvent
	f.posts.EXPECT().GetPost(gomock.Any(), "p1").Return(repositories.Post{ID: "p1", AuthorID: "B"}, nil)
	f.posts.EXPECT().AddComment(gomock.Any(), gomock.Any()).Return(nil)
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evt event.DomainEvent) {
		published = evt
	})

	comment, err := f.service.CommentPost(context.Background(), "A", "p1", long)

	req.NoError(err)
	req.Equal(event.PostCommented, published.Kind)
	req.Equal(comment.ID, published.Metadata[event.MetaCommentID])
	req.Len([]rune(published.Metadata[event.MetaExcerpt]), excerptLength)
}

func TestPostService_DeletePost(t *testing.T) {
	owner := auth.Subject{ID: "A", Roles: []string{"user"}}
	stranger := auth.Subject{ID: "C", Roles: []string{"user"}}

	t.Run("should let the author delete", func(t *testing.T) {
		req := require.New(t)
		f := newPostFixture(t)
		f.posts.EXPECT().GetPost(gomock.Any(), "p1").Return(repositories.Post{ID: "p1", AuthorID: "A"}, nil)
		f.posts.EXPECT().DeletePost(gomock.Any(), "p1").Return(nil)
		f.search.EXPECT().DeletePost("p1").Return(nil)

		req.NoError(f.service.DeletePost(context.Background(), owner, "p1"))
	})

	t.Run("should forbid anyone else", func(t *testing.T) {
		req := require.New(t)
		f := newPostFixture(t)
		f.posts.EXPECT().GetPost(gomock.Any(), "p1").Return(repositories.Post{ID: "p1", AuthorID: "A"}, nil)
		f.posts.EXPECT().DeletePost(gomock.Any(), gomock.Any()).Times(0)

		err := f.service.DeletePost(context.Background(), stranger, "p1")

		req.ErrorIs(err, errors.ErrForbidden)
	})
}

func TestPostService_SearchPosts(t *testing.T) {
	req := require.New(t)
	f := newPostFixture(t)
	f.search.EXPECT().Search(gomock.Any(), repositories.KindPost, "golang", 10).Return([]string{"p2", "p1"}, nil)
	f.posts.EXPECT().GetPostsByIDs(gomock.Any(), []string{"p2", "p1"}).
		Return([]repositories.Post{{ID: "p2"}, {ID: "p1"}}, nil)

	posts, err := f.service.SearchPosts(context.Background(), "golang", 10)

	req.NoError(err)
	req.Len(posts, 2)
	req.Equal("p2", posts[0].ID)
}
