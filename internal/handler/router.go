package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/metrics"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository"
)

// Router assembles the HTTP API.
type Router struct {
	authHandler     *AuthHandler
	postHandler     *PostHandler
	taxonomyHandler *TaxonomyHandler
	commentHandler  *CommentHandler
	socialHandler   *SocialHandler
	userHandler     *UserHandler
	mediaHandler    *MediaHandler
	adminHandler    *AdminHandler
	tokenManager    *auth.TokenManager
	metrics         *metrics.Metrics
	health          repository.DatabaseHealth
	logger          zerolog.Logger
}

// RouterConfig contains everything the router mounts.
type RouterConfig struct {
	AuthHandler     *AuthHandler
	PostHandler     *PostHandler
	TaxonomyHandler *TaxonomyHandler
	CommentHandler  *CommentHandler
	SocialHandler   *SocialHandler
	UserHandler     *UserHandler
	MediaHandler    *MediaHandler
	AdminHandler    *AdminHandler
	TokenManager    *auth.TokenManager
	Metrics         *metrics.Metrics
	Health          repository.DatabaseHealth
	Logger          zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		authHandler:     config.AuthHandler,
		postHandler:     config.PostHandler,
		taxonomyHandler: config.TaxonomyHandler,
		commentHandler:  config.CommentHandler,
		socialHandler:   config.SocialHandler,
		userHandler:     config.UserHandler,
		mediaHandler:    config.MediaHandler,
		adminHandler:    config.AdminHandler,
		tokenManager:    config.TokenManager,
		metrics:         config.Metrics,
		health:          config.Health,
		logger:          config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(rt.requestLogger)
	r.Use(middleware.Recoverer)
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
	}
	r.Use(auth.Middleware(rt.tokenManager, rt.logger))

	r.Get("/health", rt.handleHealth)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		rt.authHandler.RegisterRoutes(r)
		rt.postHandler.RegisterRoutes(r)
		rt.taxonomyHandler.RegisterRoutes(r)
		rt.commentHandler.RegisterRoutes(r)
		rt.socialHandler.RegisterRoutes(r)
		rt.userHandler.RegisterRoutes(r)
		rt.mediaHandler.RegisterRoutes(r)
		rt.adminHandler.RegisterRoutes(r)
	})

	return r
}

// requestLogger logs one line per request with status and latency.
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		rt.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// handleHealth reports liveness and database reachability.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		if err := rt.health.Health(r.Context()); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
