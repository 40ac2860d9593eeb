// Package server exposes item collections over HTTP in the shape the remote
// client expects. It backs `tada serve`.
package server

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/model"
)

// ItemStore is what the handlers need from a backend.
type ItemStore interface {
	List(ctx context.Context, collection string) ([]model.Item, error)
	Get(ctx context.Context, collection string, id model.ID) (model.Item, error)
	Create(ctx context.Context, collection string, in model.Item) (model.Item, error)
	Update(ctx context.Context, collection string, id model.ID, in model.Item) (model.Item, error)
	Remove(ctx context.Context, collection string, id model.ID) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin   *gin.Engine
	l     logging.Logger
	store ItemStore
	port  int
	mode  string
	token string
	rl    *rateLimiter
}

// Config is the dependency bag passed to New().
type Config struct {
	Store ItemStore
	Port  int
	Mode  string
	// Token, when set, must be presented as a bearer token on /api routes.
	Token string
	// RateLimitPerMin is the per-client request budget. Zero disables it.
	RateLimitPerMin int
}

// New creates a new HTTPServer with its routes registered.
func New(logger logging.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		gin:   gin.New(),
		l:     logger,
		store: cfg.Store,
		port:  cfg.Port,
		mode:  cfg.Mode,
		token: cfg.Token,
	}
	if cfg.RateLimitPerMin > 0 {
		srv.rl = newRateLimiter(cfg.RateLimitPerMin)
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.store == nil {
		return errors.New("store is required")
	}
	if srv.port <= 0 {
		return errors.New("port is required")
	}
	return nil
}

// Handler exposes the router, mainly for httptest.
func (srv *HTTPServer) Handler() *gin.Engine { return srv.gin }
