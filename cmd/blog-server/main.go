// Package main is the entry point for the blogging API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/config"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/events"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/handler"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/media"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/metrics"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/pkg/crypto"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository/sqlstore"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/tokenstore"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting blogging API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Database
	dbCfg := sqlstore.Config{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		BusyTimeout:     cfg.Database.BusyTimeout,
		JournalMode:     cfg.Database.JournalMode,
	}
	db, err := sqlstore.NewDB(ctx, dbCfg, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	repos := sqlstore.NewRepositories(db)

	// Refresh token store
	var refreshStore tokenstore.Store
	if cfg.Redis.Enabled {
		redisStore, err := tokenstore.NewRedisStore(ctx, tokenstore.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		refreshStore = redisStore
	} else {
		refreshStore = tokenstore.NewMemoryStore()
	}
	defer refreshStore.Close()

	// Tokens and authorization
	tokenManager, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:    cfg.Token.Secret,
		Issuer:    cfg.Token.Issuer,
		Audience:  cfg.Token.Audience,
		AccessTTL: cfg.Token.AccessTTL,
	})
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	authorizer := auth.NewAuthorizer(logger)
	hasher := crypto.NewBcryptHasher(cfg.Token.BcryptCost)

	// Events: audit trail plus notification fan-out
	dispatcher := events.NewDispatcher(logger)
	events.NewAuditHandler(repos.AuditLog, logger).RegisterAll(dispatcher)
	events.NewNotificationHandler(repos.Notification, logger).RegisterAll(dispatcher)

	// Media uploads
	var uploader media.Uploader
	if cfg.Media.Enabled {
		uploader, err = media.NewS3Uploader(ctx, media.S3Config{
			Endpoint:      cfg.Media.S3.Endpoint,
			Region:        cfg.Media.S3.Region,
			Bucket:        cfg.Media.S3.Bucket,
			AccessKey:     cfg.Media.S3.AccessKey,
			SecretKey:     cfg.Media.S3.SecretKey,
			PublicBaseURL: cfg.Media.S3.PublicBaseURL,
			UsePathStyle:  cfg.Media.S3.UsePathStyle,
		}, logger)
		if err != nil {
			return fmt.Errorf("media uploader: %w", err)
		}
	} else {
		uploader = media.Disabled()
	}

	// Services
	permissionService := service.NewPermissionService(repos, logger)
	authService := service.NewAuthService(repos.User, permissionService, tokenManager, refreshStore, hasher, cfg.Token.RefreshTTL, logger)
	postService := service.NewPostService(repos.Post, repos.Category, repos.Tag, dispatcher, logger)
	categoryService := service.NewCategoryService(repos.Category, logger)
	tagService := service.NewTagService(repos.Tag, logger)
	commentService := service.NewCommentService(repos.Comment, repos.Post, dispatcher, logger)
	likeService := service.NewLikeService(repos.Like, repos.Post, repos.Comment, dispatcher, logger)
	followService := service.NewFollowService(repos.Follower, repos.User, dispatcher, logger)
	savedPostService := service.NewSavedPostService(repos.SavedPost, repos.Post, dispatcher, logger)
	userService := service.NewUserService(repos.User, repos.Notification, logger)
	mediaService := service.NewMediaService(repos.Media, uploader, logger)

	// Metrics
	var apiMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		apiMetrics = metrics.New()
	}

	// HTTP
	if cfg.Server.Environment != "production" {
		handler.ExposeErrorDetail(true)
	}
	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		PostHandler:     handler.NewPostHandler(postService, authorizer, logger),
		TaxonomyHandler: handler.NewTaxonomyHandler(categoryService, tagService, authorizer, logger),
		CommentHandler:  handler.NewCommentHandler(commentService, authorizer, logger),
		SocialHandler:   handler.NewSocialHandler(likeService, followService, savedPostService, logger),
		UserHandler:     handler.NewUserHandler(userService, authorizer, logger),
		MediaHandler:    handler.NewMediaHandler(mediaService, authorizer, logger),
		AdminHandler:    handler.NewAdminHandler(permissionService, authorizer, logger),
		TokenManager:    tokenManager,
		Metrics:         apiMetrics,
		Health:          db,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}

// newLogger builds the root logger from config.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return logger.Level(level)
}
