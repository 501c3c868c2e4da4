// Package server is an in-memory reference implementation of the notes
// API the client consumes. It exists for local development and as the
// integration-test fixture; the production service lives elsewhere.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/quillhq/quill/common/logger"
)

// Server bundles the echo instance with its store and signing secret
type Server struct {
	echo   *echo.Echo
	store  *Store
	secret string
	log    *logger.Logger
}

// New creates a devserver with an empty store
func New(secret string, log *logger.Logger) *Server {
	s := &Server{
		echo:   setupEcho(),
		store:  NewStore(),
		secret: secret,
		log:    log,
	}

	setupMiddleware(s.echo)
	s.registerRoutes()
	return s
}

// Store exposes the backing store, for test seeding
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the root handler, for httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until the listener fails
func (s *Server) Start(addr string) error {
	s.log.Info("devserver listening", "addr", addr)
	return s.echo.Start(addr)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
}

// registerRoutes wires the API surface under /api
func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	api.POST("/auth/register/", s.Register)
	api.POST("/token/", s.Login)
	api.POST("/token/refresh/", s.Refresh)
	api.POST("/auth/logout/", s.Logout)

	// Notes
	notes := api.Group("/notes", s.requireAuth)
	{
		notes.GET("/", s.ListNotes)
		notes.POST("/", s.CreateNote)
		notes.PATCH("/:id/", s.UpdateNote)
		notes.DELETE("/:id/", s.DeleteNote)
	}

	// Tags
	tags := api.Group("/tags", s.requireAuth)
	{
		tags.GET("/", s.ListTags)
		tags.POST("/", s.CreateTag)
		tags.DELETE("/:id/", s.DeleteTag)
	}
}
