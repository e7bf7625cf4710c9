package repositories

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"social-club/domain"
	"social-club/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQL(filepath.Join(t.TempDir(), "social.db"), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestUser(username string) *User {
	return &User{
		ID:           uuid.NewString(),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		Roles:        []string{string(domain.RoleUser)},
	}
}

func TestUserRepository_Create_And_Get(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	alice := newTestUser("alice")

	req.NoError(repo.CreateUser(ctx, alice))

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	req.NoError(err)
	req.Equal(alice.ID, byEmail.ID)
	req.Equal([]string{"user"}, byEmail.Roles)
	req.True(byEmail.HasRole(domain.RoleUser))
	req.False(byEmail.HasRole(domain.RoleAdmin))

	byID, err := repo.GetUserByID(ctx, alice.ID)
	req.NoError(err)
	req.Equal("alice", byID.Username)

	_, err = repo.GetUserByID(ctx, "missing")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	req.NoError(repo.CreateUser(ctx, newTestUser("alice")))

	duplicate := newTestUser("alice2")
	duplicate.Email = "alice@example.com"

	req.ErrorIs(repo.CreateUser(ctx, duplicate), errors.ErrUserAlreadyExists)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	alice := newTestUser("alice")
	req.NoError(repo.CreateUser(ctx, alice))
	req.NoError(repo.CreateUser(ctx, newTestUser("bob")))

	bio := "Backend engineer"
	updated, err := repo.UpdateProfile(ctx, alice.ID, ProfileChanges{Bio: &bio})
	req.NoError(err)
	req.Equal(bio, updated.Bio)
	req.Equal("alice", updated.Username)

	taken := "bob"
	_, err = repo.UpdateProfile(ctx, alice.ID, ProfileChanges{Username: &taken})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	_, err = repo.UpdateProfile(ctx, "missing", ProfileChanges{Bio: &bio})
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_MarkEmailVerified(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	alice := newTestUser("alice")
	alice.VerificationCode = "123456"
	req.NoError(repo.CreateUser(ctx, alice))

	req.NoError(repo.MarkEmailVerified(ctx, alice.ID))

	got, err := repo.GetUserByID(ctx, alice.ID)
	req.NoError(err)
	req.True(got.EmailVerified)
	req.Empty(got.VerificationCode)
	req.ErrorIs(repo.MarkEmailVerified(ctx, "missing"), errors.ErrUserNotFound)

	n, err := repo.Count(ctx)
	req.NoError(err)
	req.Equal(int64(1), n)
}

func TestPostRepository_Likes_Are_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewPostRepository(newTestDB(t))
	post := &Post{ID: uuid.NewString(), AuthorID: "u2", Content: "hello"}
	req.NoError(repo.CreatePost(ctx, post))

	// When U1 likes twice
	created, err := repo.AddLike(ctx, post.ID, "u1")
	req.NoError(err)
	req.True(created)
	created, err = repo.AddLike(ctx, post.ID, "u1")
	req.NoError(err)
	req.False(created)

	// Then only one like exists
	n, err := repo.CountLikes(ctx, post.ID)
	req.NoError(err)
	req.Equal(int64(1), n)

	removed, err := repo.RemoveLike(ctx, post.ID, "u1")
	req.NoError(err)
	req.True(removed)
	removed, err = repo.RemoveLike(ctx, post.ID, "u1")
	req.NoError(err)
	req.False(removed)
}

func TestPostRepository_List_Comments_And_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewPostRepository(newTestDB(t))
	now := time.Now().UTC()

	older := &Post{ID: uuid.NewString(), AuthorID: "u1", Content: "first", CreatedAt: now.Add(-time.Hour)}
	newer := &Post{ID: uuid.NewString(), AuthorID: "u1", Content: "second", CreatedAt: now}
	other := &Post{ID: uuid.NewString(), AuthorID: "u2", Content: "third", CreatedAt: now}
	for _, p := range []*Post{older, newer, other} {
		req.NoError(repo.CreatePost(ctx, p))
	}
	req.NoError(repo.AddComment(ctx, &Comment{ID: uuid.NewString(), PostID: older.ID, AuthorID: "u2", Content: "nice", CreatedAt: now}))
	_, err := repo.AddLike(ctx, older.ID, "u2")
	req.NoError(err)

	posts, err := repo.ListPosts(ctx, "u1", 10)
	req.NoError(err)
	req.Len(posts, 2)
	req.Equal(newer.ID, posts[0].ID)

	byIDs, err := repo.GetPostsByIDs(ctx, []string{other.ID, "missing", older.ID})
	req.NoError(err)
	req.Equal([]string{other.ID, older.ID}, []string{byIDs[0].ID, byIDs[1].ID})

	comments, err := repo.ListComments(ctx, older.ID)
	req.NoError(err)
	req.Len(comments, 1)

	// When the post is deleted its comments and likes go with it
	req.NoError(repo.DeletePost(ctx, older.ID))
	_, err = repo.GetPost(ctx, older.ID)
	req.ErrorIs(err, errors.ErrPostNotFound)
	req.ErrorIs(repo.DeletePost(ctx, older.ID), errors.ErrPostNotFound)

	counts, err := repo.Counts(ctx)
	req.NoError(err)
	req.Equal(PostCounts{Posts: 2, Comments: 0, Likes: 0}, counts)
}

func TestFriendRepository_Respond_Only_Once(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewFriendRepository(newTestDB(t))
	request := &FriendRequest{ID: uuid.NewString(), SenderID: "u1", RecipientID: "u2", Status: domain.FriendRequestPending, CreatedAt: time.Now().UTC()}
	req.NoError(repo.CreateRequest(ctx, request))

	pending, err := repo.ListPending(ctx, "u2")
	req.NoError(err)
	req.Len(pending, 1)

	accepted, err := repo.Respond(ctx, request.ID, domain.FriendRequestAccepted, time.Now().UTC())
	req.NoError(err)
	req.Equal(domain.FriendRequestAccepted, accepted.Status)
	req.NotNil(accepted.RespondedAt)

	_, err = repo.Respond(ctx, request.ID, domain.FriendRequestRejected, time.Now().UTC())
	req.ErrorIs(err, errors.ErrRequestNotPending)
	_, err = repo.Respond(ctx, "missing", domain.FriendRequestAccepted, time.Now().UTC())
	req.ErrorIs(err, errors.ErrFriendRequestNotFound)

	friendsOfU1, err := repo.ListFriendIDs(ctx, "u1")
	req.NoError(err)
	req.Equal([]string{"u2"}, friendsOfU1)
	friendsOfU2, err := repo.ListFriendIDs(ctx, "u2")
	req.NoError(err)
	req.Equal([]string{"u1"}, friendsOfU2)

	between, err := repo.FindBetween(ctx, "u2", "u1")
	req.NoError(err)
	req.Len(between, 1)
}

func TestFriendRepository_One_Live_Request_Per_Pair(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewFriendRepository(newTestDB(t))
	newRequest := func(sender, recipient string) *FriendRequest {
		return &FriendRequest{ID: uuid.NewString(), SenderID: sender, RecipientID: recipient, Status: domain.FriendRequestPending, CreatedAt: time.Now().UTC()}
	}

	// Given a pending request from A to B
	first := newRequest("A", "B")
	req.NoError(repo.CreateRequest(ctx, first))

	// When either side sends another one
	// Then both are refused as already pending
	req.ErrorIs(repo.CreateRequest(ctx, newRequest("A", "B")), errors.ErrRequestAlreadyPending)
	req.ErrorIs(repo.CreateRequest(ctx, newRequest("B", "A")), errors.ErrRequestAlreadyPending)

	// Given the request is accepted
	_, err := repo.Respond(ctx, first.ID, domain.FriendRequestAccepted, time.Now().UTC())
	req.NoError(err)

	// Then a new request reports the friendship and no duplicate friend appears
	req.ErrorIs(repo.CreateRequest(ctx, newRequest("B", "A")), errors.ErrAlreadyFriends)
	friends, err := repo.ListFriendIDs(ctx, "A")
	req.NoError(err)
	req.Equal([]string{"B"}, friends)
}

func TestFriendRepository_Rejection_Frees_The_Pair(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewFriendRepository(newTestDB(t))
	first := &FriendRequest{ID: uuid.NewString(), SenderID: "A", RecipientID: "B", Status: domain.FriendRequestPending, CreatedAt: time.Now().UTC()}
	req.NoError(repo.CreateRequest(ctx, first))

	rejected, err := repo.Respond(ctx, first.ID, domain.FriendRequestRejected, time.Now().UTC())
	req.NoError(err)
	req.Nil(rejected.PairKey)

	again := &FriendRequest{ID: uuid.NewString(), SenderID: "B", RecipientID: "A", Status: domain.FriendRequestPending, CreatedAt: time.Now().UTC()}
	req.NoError(repo.CreateRequest(ctx, again))
}

func TestFriendRepository_Concurrent_Crossed_Requests(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewFriendRepository(newTestDB(t))

	// Given A and B send each other a request at the same time
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, pair := range [][2]string{{"A", "B"}, {"B", "A"}} {
		wg.Add(1)
		go func(i int, sender, recipient string) {
			defer wg.Done()
			results[i] = repo.CreateRequest(ctx, &FriendRequest{
				ID: uuid.NewString(), SenderID: sender, RecipientID: recipient,
				Status: domain.FriendRequestPending, CreatedAt: time.Now().UTC(),
			})
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	// Then exactly one is stored
	refused := 0
	for _, err := range results {
		if err != nil {
			req.ErrorIs(err, errors.ErrRequestAlreadyPending)
			refused++
		}
	}
	req.Equal(1, refused)
	between, err := repo.FindBetween(ctx, "A", "B")
	req.NoError(err)
	req.Len(between, 1)
}

func TestJobRepository_Applications(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewJobRepository(newTestDB(t))
	company := &Company{ID: uuid.NewString(), OwnerID: "recruiter", Name: "Acme"}
	req.NoError(repo.CreateCompany(ctx, company))
	job := &Job{ID: uuid.NewString(), CompanyID: company.ID, Title: "Go developer", Open: true, CreatedAt: time.Now().UTC()}
	req.NoError(repo.CreateJob(ctx, job))

	application := &Application{ID: uuid.NewString(), JobID: job.ID, ApplicantID: "u1", CoverLetter: "hire me", Status: domain.ApplicationSubmitted}
	req.NoError(repo.CreateApplication(ctx, application))

	duplicate := &Application{ID: uuid.NewString(), JobID: job.ID, ApplicantID: "u1", CoverLetter: "again", Status: domain.ApplicationSubmitted}
	req.ErrorIs(repo.CreateApplication(ctx, duplicate), errors.ErrAlreadyApplied)

	req.NoError(repo.UpdateApplicationStatus(ctx, application.ID, domain.ApplicationReviewing))
	got, err := repo.GetApplication(ctx, application.ID)
	req.NoError(err)
	req.Equal(domain.ApplicationReviewing, got.Status)
	req.ErrorIs(repo.UpdateApplicationStatus(ctx, "missing", domain.ApplicationReviewing), errors.ErrApplicationNotFound)

	jobs, err := repo.ListOpenJobs(ctx, 10)
	req.NoError(err)
	req.Len(jobs, 1)

	applications, err := repo.ListApplications(ctx, job.ID)
	req.NoError(err)
	req.Len(applications, 1)

	_, err = repo.GetJob(ctx, "missing")
	req.ErrorIs(err, errors.ErrJobNotFound)
	_, err = repo.GetCompany(ctx, "missing")
	req.ErrorIs(err, errors.ErrCompanyNotFound)

	counts, err := repo.Counts(ctx)
	req.NoError(err)
	req.Equal(JobCounts{Companies: 1, Jobs: 1, Applications: 1}, counts)
}
