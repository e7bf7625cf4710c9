package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-club/auth"
	"social-club/contract"
	"social-club/infrastructure/grpc/server"
	"social-club/infrastructure/relay"
	"social-club/infrastructure/rest"
	"social-club/infrastructure/ws"
	"social-club/internal"
	"social-club/moderation"
	"social-club/observability"
	"social-club/repositories"
	"social-club/runtime"
	"social-club/runtime/workers"
	"social-club/services"
	"social-club/storage"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes reported to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns the lifecycle so that deferred cleanups
// (badger, bluge, sqlite, relay) always execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env file is fine: the environment may already be populated.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	if config.NodeID == "" {
		config.NodeID = uuid.NewString()
	}

	logger := logs.GetLoggerFromString(config.LogLevel).With("node_id", config.NodeID)
	ctx := context.Background()

	// 2. Storage: badger for chat, sqlite for the social graph, bluge for search
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, MessageMapper)
	}

	sqlDB, err := repositories.OpenSQL(config.SQLiteFilepath, logger.Enabled(ctx, slog.LevelDebug))
	if err != nil {
		return exitRuntime, fmt.Errorf("sqlite opening failed: %w", err)
	}
	if rawSQL, err := sqlDB.DB(); err == nil {
		defer func() {
			logger.Info("Closing SQLite...")
			_ = rawSQL.Close()
		}()
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	avatars, err := storage.NewDiskStore(config.AvatarDir, config.AvatarBaseURL, config.AvatarMaxBytes, logger)
	if err != nil {
		return exitRuntime, err
	}

	// 3. Moderation dictionaries
	loader := runtime.NewEmbeddedCensoredLoader()
	censoredDir := "censored"
	if config.CensoredDir != "" {
		loader = runtime.NewCensoredLoader(os.DirFS(config.CensoredDir))
		censoredDir = "."
	}
	censored, err := loader.LoadAll(censoredDir)
	if err != nil {
		return exitConfig, fmt.Errorf("censored words loading failed: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, charReplacement, logger)
	if err != nil {
		return exitRuntime, err
	}
	logger.Info("Moderation ready", "languages", censored.Languages, "words", len(censored.Words))

	// 4. Live layer: registry, relay, deliverer, bus
	monitoring := observability.NewMonitoringManager(logger)
	registry := runtime.NewRegistry()
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(logger, config.MetricInterval, monitoring, registry))

	var frameRelay contract.Relay
	if config.ValkeyAddress != "" {
		client, err := relay.Dial(config.ValkeyAddress)
		if err != nil {
			return exitRuntime, err
		}
		valkeyRelay := relay.NewValkeyRelay(logger, client, config.ValkeyChannel, config.NodeID)
		defer valkeyRelay.Close()
		frameRelay = valkeyRelay
		logger.Info("Cross-node relay enabled", "address", config.ValkeyAddress, "channel", config.ValkeyChannel)
	}
	deliverer := runtime.NewDeliverer(logger, registry, frameRelay, monitoring)
	if frameRelay != nil {
		sup.Add(workers.NewRelayWorker(logger, frameRelay, deliverer, monitoring))
	}
	bus := runtime.NewBus(logger, config.HandlerTimeout, monitoring)

	// 5. Repositories & services
	userRepository := repositories.NewUserRepository(sqlDB)
	postRepository := repositories.NewPostRepository(sqlDB)
	friendRepository := repositories.NewFriendRepository(sqlDB)
	jobRepository := repositories.NewJobRepository(sqlDB)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	searchIndex := repositories.NewSearchIndex(blugeWriter, logger)

	authorizer, err := auth.NewDefaultAuthorizer(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("policy compilation failed: %w", err)
	}
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration, config.JWTIssuer)

	bus.Subscribe(runtime.AllKinds(), services.NewNotificationDispatcher(logger, userRepository, deliverer, monitoring))

	chatService := services.NewChatService(logger, userRepository, messageRepository, deliverer, moderator, monitoring, config.MaxContentLength)
	handlers := rest.Handlers{
		Auth: services.NewAuthService(logger, userRepository, searchIndex, tokens,
			services.NewLogMailer(logger), internal.SplitList(config.AdminEmails)),
		Users:   services.NewUserService(logger, userRepository, searchIndex, avatars),
		Posts:   services.NewPostService(logger, postRepository, searchIndex, bus, authorizer),
		Friends: services.NewFriendService(logger, userRepository, friendRepository, bus),
		Jobs:    services.NewJobService(logger, jobRepository, bus, authorizer),
		Chat:    chatService,
		Analytics: services.NewAnalyticsService(userRepository, postRepository, friendRepository, jobRepository,
			messageRepository, registry, monitoring, authorizer),
	}

	gateway := ws.NewGateway(logger, tokens, registry, chatService, ws.Options{
		SendBuffer:     config.ConnectionBufferSize,
		MaxFrameBytes:  config.MaxFrameBytes,
		WriteWait:      config.WriteWait,
		PongWait:       config.PongWait,
		RequestTimeout: config.RequestTimeout,
		AllowedOrigins: internal.SplitList(config.AllowedOrigins),
	})
	e := rest.NewServer(logger, handlers, rest.Options{Tokens: tokens, Socket: gateway, AvatarDir: config.AvatarDir})

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		logger.Info("Starting supervisor...")
		sup.Run(ctx)
	}()

	// 7. HTTP (REST + socket) and gRPC (health) servers
	httpAddress := fmt.Sprintf("%s:%d", config.Host, config.HTTPPort)
	httpServer := &http.Server{Addr: httpAddress, Handler: e, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("Starting HTTP server", "address", httpAddress, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GRPCPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	healthServer := server.NewHealthServer(logger)
	go func() {
		logger.Info("Starting gRPC server", "address", grpcAddress, "at", time.Now().UTC())
		if err := healthServer.Serve(listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	exitCode, runErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		exitCode = exitRuntime
	}

	// 9. Graceful shutdown: health first so load balancers drain us, then sockets, then HTTP.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	healthServer.SetServing(false)
	gateway.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	healthServer.Stop(shutdownCtx)
	sup.Stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return exitCode, runErr
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// MessageMapper renders chat records for the badger inspector.
func MessageMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	msg, err := repositories.UnmarshalMessage(val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = "CHAT"
	row.Detail = fmt.Sprintf("%s -> %s: %s", msg.SenderID, msg.RecipientID, msg.Content)
	return row
}
