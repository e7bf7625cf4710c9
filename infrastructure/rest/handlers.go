package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"social-club/auth"
	"social-club/domain"
	"social-club/errors"
	"social-club/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type handler struct {
	Handlers
}

type friendRequestBody struct {
	RecipientID string `json:"recipientId"`
}

type postBody struct {
	Content string `json:"content"`
}

type applicationStatusBody struct {
	Status domain.ApplicationStatus `json:"status"`
}

type sendMessageBody struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func bind(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return fmt.Errorf("%w: malformed body", errors.ErrValidation)
	}
	return nil
}

func limitOf(c echo.Context) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// Auth

func (h handler) register(c echo.Context) error {
	var request auth.RegisterRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	user, err := h.Auth.Register(c.Request().Context(), request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProfile(user))
}

func (h handler) login(c echo.Context) error {
	var request auth.LoginRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	token, err := h.Auth.Login(c.Request().Context(), request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token.String()})
}

func (h handler) verify(c echo.Context) error {
	var request auth.VerifyRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	if err := h.Auth.Verify(c.Request().Context(), request); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Users

func (h handler) me(c echo.Context) error {
	user, err := h.Users.GetUser(c.Request().Context(), subjectOf(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfile(user))
}

func (h handler) updateMe(c echo.Context) error {
	var request services.UpdateProfileRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	user, err := h.Users.UpdateProfile(c.Request().Context(), subjectOf(c).ID, request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfile(user))
}

func (h handler) uploadAvatar(c echo.Context) error {
	user, err := h.Users.UploadAvatar(c.Request().Context(), subjectOf(c).ID, c.Request().Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfile(user))
}

func (h handler) getUser(c echo.Context) error {
	user, err := h.Users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUser(user))
}

func (h handler) searchUsers(c echo.Context) error {
	users, err := h.Users.SearchUsers(c.Request().Context(), c.QueryParam("q"), limitOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUsers(users))
}

// Posts

func (h handler) createPost(c echo.Context) error {
	var body postBody
	if err := bind(c, &body); err != nil {
		return err
	}
	post, err := h.Posts.CreatePost(c.Request().Context(), subjectOf(c).ID, body.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPost(post))
}

func (h handler) listPosts(c echo.Context) error {
	posts, err := h.Posts.ListPosts(c.Request().Context(), c.QueryParam("author"), limitOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPosts(posts))
}

func (h handler) searchPosts(c echo.Context) error {
	posts, err := h.Posts.SearchPosts(c.Request().Context(), c.QueryParam("q"), limitOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPosts(posts))
}

func (h handler) deletePost(c echo.Context) error {
	if err := h.Posts.DeletePost(c.Request().Context(), subjectOf(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h handler) likePost(c echo.Context) error {
	if err := h.Posts.LikePost(c.Request().Context(), subjectOf(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h handler) unlikePost(c echo.Context) error {
	if err := h.Posts.UnlikePost(c.Request().Context(), subjectOf(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h handler) commentPost(c echo.Context) error {
	var body postBody
	if err := bind(c, &body); err != nil {
		return err
	}
	comment, err := h.Posts.CommentPost(c.Request().Context(), subjectOf(c).ID, c.Param("id"), body.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toComment(comment))
}

func (h handler) listComments(c echo.Context) error {
	comments, err := h.Posts.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toComments(comments))
}

// Friends

func (h handler) sendFriendRequest(c echo.Context) error {
	var body friendRequestBody
	if err := bind(c, &body); err != nil {
		return err
	}
	request, err := h.Friends.SendRequest(c.Request().Context(), subjectOf(c).ID, body.RecipientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toFriendRequest(request))
}

func (h handler) pendingFriendRequests(c echo.Context) error {
	requests, err := h.Friends.PendingRequests(c.Request().Context(), subjectOf(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFriendRequests(requests))
}

func (h handler) acceptFriendRequest(c echo.Context) error {
	request, err := h.Friends.Accept(c.Request().Context(), subjectOf(c).ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFriendRequest(request))
}

func (h handler) rejectFriendRequest(c echo.Context) error {
	request, err := h.Friends.Reject(c.Request().Context(), subjectOf(c).ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFriendRequest(request))
}

func (h handler) friends(c echo.Context) error {
	users, err := h.Friends.Friends(c.Request().Context(), subjectOf(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUsers(users))
}

// Jobs

func (h handler) createCompany(c echo.Context) error {
	var request services.CreateCompanyRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	company, err := h.Jobs.CreateCompany(c.Request().Context(), subjectOf(c).ID, request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCompany(company))
}

func (h handler) createJob(c echo.Context) error {
	var request services.CreateJobRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	job, err := h.Jobs.CreateJob(c.Request().Context(), subjectOf(c), c.Param("id"), request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toJob(job))
}

func (h handler) listJobs(c echo.Context) error {
	jobs, err := h.Jobs.ListJobs(c.Request().Context(), limitOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobs(jobs))
}

func (h handler) apply(c echo.Context) error {
	var request services.ApplyRequest
	if err := bind(c, &request); err != nil {
		return err
	}
	application, err := h.Jobs.Apply(c.Request().Context(), subjectOf(c).ID, c.Param("id"), request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toApplication(application))
}

func (h handler) listApplications(c echo.Context) error {
	applications, err := h.Jobs.ListApplications(c.Request().Context(), subjectOf(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplications(applications))
}

func (h handler) updateApplication(c echo.Context) error {
	var body applicationStatusBody
	if err := bind(c, &body); err != nil {
		return err
	}
	application, err := h.Jobs.UpdateApplicationStatus(c.Request().Context(), subjectOf(c), c.Param("id"), body.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplication(application))
}

// Messages

func (h handler) conversations(c echo.Context) error {
	conversations, err := h.Chat.Conversations(c.Request().Context(), subjectOf(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toConversations(conversations))
}

func (h handler) history(c echo.Context) error {
	var cursor *string
	if raw := c.QueryParam("cursor"); raw != "" {
		cursor = &raw
	}
	messages, next, err := h.Chat.History(c.Request().Context(), subjectOf(c).ID, c.Param("peerId"), cursor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, HistoryResponse{Messages: toMessages(messages), NextCursor: next})
}

func (h handler) sendMessage(c echo.Context) error {
	var body sendMessageBody
	if err := bind(c, &body); err != nil {
		return err
	}
	message, err := h.Chat.SendMessage(c.Request().Context(), subjectOf(c).ID, body.RecipientID, body.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMessage(message))
}

// Admin

func (h handler) analytics(c echo.Context) error {
	snapshot, err := h.Analytics.Snapshot(c.Request().Context(), subjectOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}
