// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/admin"
	"github.com/stwalsh4118/akmovies/internal/api"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/cache"
	"github.com/stwalsh4118/akmovies/internal/catalog"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/library"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/middleware"
	"github.com/stwalsh4118/akmovies/internal/player"
)

// Dependencies are the external collaborators the server is built from.
// Cache, Events and Upstreams may be nil.
type Dependencies struct {
	TMDB      catalog.TMDB
	AniList   catalog.AniList
	Cache     *cache.Cache
	Events    *events.Publisher
	Upstreams []api.UpstreamReporter
}

// Server represents the HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	repos          *db.Repositories
	deps           Dependencies
	catalogService *catalog.Service
	libraryService *library.Service
	adminService   *admin.Service
	player         *player.Builder
	limiter        *admin.RateLimiter
	authenticator  *middleware.Authenticator
	router         *gin.Engine
	server         *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB, deps Dependencies) *Server {
	repos := db.NewRepositories(database)

	return &Server{
		config:         cfg,
		db:             database,
		repos:          repos,
		deps:           deps,
		catalogService: catalog.NewService(deps.TMDB, deps.AniList, repos.Recommendations, deps.Cache),
		libraryService: library.NewService(repos, deps.Events),
		adminService:   admin.NewService(repos, deps.Events, cfg.Player.DefaultServers),
		player:         player.NewBuilder(cfg.Player),
		limiter:        admin.NewRateLimiter(admin.DefaultLimits()),
		authenticator:  middleware.NewAuthenticator(auth.NewVerifier(cfg.Auth.JWTSecret), repos.Users),
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.router != nil {
		return
	}

	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(corsConfig()))
	s.router.Use(s.authenticator.Authenticate())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db, s.deps.Upstreams...)
	api.SetupCatalogRoutes(apiGroup, s.catalogService, s.deps.Events, s.config.AniList.PerPage)
	api.SetupWatchRoutes(apiGroup, s.catalogService, s.adminService, s.libraryService, s.player)
	api.SetupLibraryRoutes(apiGroup, s.libraryService)
	api.SetupAdminRoutes(apiGroup, s.adminService, &s.config.Auth, s.limiter)
}

// corsConfig allows every origin and the Authorization header the SPA sends
func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	c.AddExposeHeaders(middleware.RequestIDHeader)
	return c
}

// Handler returns the configured router, building it on first use
func (s *Server) Handler() http.Handler {
	s.setupRouter()
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
