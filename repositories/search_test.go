package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewSearchIndex(writer, logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestSearchIndex_Posts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newTestIndex(t)

	req.NoError(index.IndexPost(Post{ID: "p1", AuthorID: "u1", Content: "Hiring a Golang engineer in Tunis"}))
	req.NoError(index.IndexPost(Post{ID: "p2", AuthorID: "u2", Content: "Weekend hiking photos"}))
	req.NoError(index.IndexUser(User{ID: "u9", Username: "golang_fan", Bio: "golang all day"}))

	ids, err := index.Search(ctx, KindPost, "golang", 10)
	req.NoError(err)
	req.Equal([]string{"p1"}, ids)

	// When the post is deleted
	req.NoError(index.DeletePost("p1"))

	ids, err = index.Search(ctx, KindPost, "golang", 10)
	req.NoError(err)
	req.Empty(ids)
}

func TestSearchIndex_Users(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newTestIndex(t)

	req.NoError(index.IndexUser(User{ID: "u1", Username: "alice", Bio: "Data scientist"}))
	req.NoError(index.IndexUser(User{ID: "u2", Username: "bob", Bio: "Product designer"}))

	ids, err := index.Search(ctx, KindUser, "designer", 0)
	req.NoError(err)
	req.Equal([]string{"u2"}, ids)

	// Re-indexing replaces the previous document
	req.NoError(index.IndexUser(User{ID: "u2", Username: "bob", Bio: "Chef"}))
	ids, err = index.Search(ctx, KindUser, "designer", 0)
	req.NoError(err)
	req.Empty(ids)

	ids, err = index.Search(ctx, KindUser, "   ", 0)
	req.NoError(err)
	req.Nil(ids)
}
