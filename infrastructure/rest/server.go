// Package rest is the JSON API of the platform, served with echo.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"social-club/auth"
	"social-club/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers groups the application services reachable over HTTP.
type Handlers struct {
	Auth      services.IAuthService
	Users     services.IUserService
	Posts     services.IPostService
	Friends   services.IFriendService
	Jobs      services.IJobService
	Chat      services.IChatService
	Analytics services.IAnalyticsService
}

type Options struct {
	Tokens    *auth.TokenManager
	Socket    http.Handler
	AvatarDir string
	BodyLimit string
}

func NewServer(log *slog.Logger, handlers Handlers, options Options) *echo.Echo {
	if options.BodyLimit == "" {
		options.BodyLimit = "6M"
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if options.Socket != nil {
		e.GET("/ws", echo.WrapHandler(options.Socket))
	}
	if options.AvatarDir != "" {
		e.Static("/avatars", options.AvatarDir)
	}

	h := handler{Handlers: handlers}
	api := e.Group("/api/v1", middleware.BodyLimit(options.BodyLimit))

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.POST("/auth/verify", h.verify)

	private := api.Group("", authenticate(options.Tokens))

	private.GET("/users/me", h.me)
	private.PATCH("/users/me", h.updateMe)
	private.PUT("/users/me/avatar", h.uploadAvatar)
	private.GET("/users/search", h.searchUsers)
	private.GET("/users/:id", h.getUser)

	private.POST("/posts", h.createPost)
	private.GET("/posts", h.listPosts)
	private.GET("/posts/search", h.searchPosts)
	private.DELETE("/posts/:id", h.deletePost)
	private.POST("/posts/:id/like", h.likePost)
	private.DELETE("/posts/:id/like", h.unlikePost)
	private.POST("/posts/:id/comments", h.commentPost)
	private.GET("/posts/:id/comments", h.listComments)

	private.POST("/friends/requests", h.sendFriendRequest)
	private.GET("/friends/requests", h.pendingFriendRequests)
	private.POST("/friends/requests/:id/accept", h.acceptFriendRequest)
	private.POST("/friends/requests/:id/reject", h.rejectFriendRequest)
	private.GET("/friends", h.friends)

	private.POST("/companies", h.createCompany)
	private.POST("/companies/:id/jobs", h.createJob)
	private.GET("/jobs", h.listJobs)
	private.POST("/jobs/:id/applications", h.apply)
	private.GET("/jobs/:id/applications", h.listApplications)
	private.PATCH("/applications/:id", h.updateApplication)

	private.GET("/messages/conversations", h.conversations)
	private.GET("/messages/:peerId", h.history)
	private.POST("/messages", h.sendMessage)

	private.GET("/admin/analytics", h.analytics)

	return e
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "HTTP request", attrs...)
			return nil
		},
	})
}
