//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_index.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
)

type DocumentKind string

const (
	KindPost DocumentKind = "post"
	KindUser DocumentKind = "user"
)

const (
	fieldKind    = "kind"
	fieldRef     = "ref"
	fieldText    = "text"
	fieldAuthor  = "author"
	defaultLimit = 20
)

type ISearchIndex interface {
	IndexPost(post Post) error
	IndexUser(user User) error
	DeletePost(id string) error
	Search(ctx context.Context, kind DocumentKind, query string, limit int) ([]string, error)
}

// SearchIndex is the full text index over posts and user profiles.
// Documents are keyed "{kind}:{id}" so both kinds share one index.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

func documentID(kind DocumentKind, id string) string {
	return string(kind) + ":" + id
}

func (s *SearchIndex) IndexPost(post Post) error {
	doc := bluge.NewDocument(documentID(KindPost, post.ID)).
		AddField(bluge.NewKeywordField(fieldKind, string(KindPost))).
		AddField(bluge.NewKeywordField(fieldRef, post.ID).StoreValue()).
		AddField(bluge.NewKeywordField(fieldAuthor, post.AuthorID)).
		AddField(bluge.NewTextField(fieldText, post.Content))
	return s.writer.Update(doc.ID(), doc)
}

func (s *SearchIndex) IndexUser(user User) error {
	doc := bluge.NewDocument(documentID(KindUser, user.ID)).
		AddField(bluge.NewKeywordField(fieldKind, string(KindUser))).
		AddField(bluge.NewKeywordField(fieldRef, user.ID).StoreValue()).
		AddField(bluge.NewTextField(fieldText, strings.Join([]string{user.Username, user.Bio}, " ")))
	return s.writer.Update(doc.ID(), doc)
}

func (s *SearchIndex) DeletePost(id string) error {
	return s.writer.Delete(bluge.Identifier(documentID(KindPost, id)))
}

// Search returns the ids of the best matching documents of one kind.
func (s *SearchIndex) Search(ctx context.Context, kind DocumentKind, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Warn("Failed to close search reader", "error", err)
		}
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(string(kind)).SetField(fieldKind)).
		AddMust(bluge.NewMatchQuery(query).SetField(fieldText))

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == fieldRef {
				ids = append(ids, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
