//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"

	"social-club/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IPostRepository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]Post, error)
	ListPosts(ctx context.Context, authorID string, limit int) ([]Post, error)
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) (bool, error)
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID string) ([]Comment, error)
	Counts(ctx context.Context) (PostCounts, error)
}

type PostCounts struct {
	Posts    int64
	Comments int64
	Likes    int64
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) IPostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(ctx context.Context, post *Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) GetPost(ctx context.Context, id string) (Post, error) {
	var post Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, errors.ErrPostNotFound
	}
	return post, err
}

// GetPostsByIDs keeps the order of ids, skipping the ones that no longer exist.
func (r *PostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// ListPosts returns the newest posts first, optionally for one author.
func (r *PostRepository) ListPosts(ctx context.Context, authorID string, limit int) ([]Post, error) {
	var posts []Post
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if authorID != "" {
		q = q.Where("author_id = ?", authorID)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// DeletePost soft-deletes the post along with its likes and comments.
func (r *PostRepository) DeletePost(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrPostNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&Like{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&Comment{}).Error
	})
}

// AddLike is idempotent; it reports true only when the like did not exist yet.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Like{PostID: postID, UserID: userID})
	return res.RowsAffected == 1, res.Error
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&Like{})
	return res.RowsAffected == 1, res.Error
}

func (r *PostRepository) CountLikes(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *PostRepository) AddComment(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments returns comments oldest first.
func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *PostRepository) Counts(ctx context.Context) (PostCounts, error) {
	var c PostCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&Post{}).Count(&c.Posts).Error; err != nil {
		return c, err
	}
	if err := db.Model(&Comment{}).Count(&c.Comments).Error; err != nil {
		return c, err
	}
	err := db.Model(&Like{}).Count(&c.Likes).Error
	return c, err
}
