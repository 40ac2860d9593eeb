package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada-remote/internal/logging"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "tada"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerItemRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.requestLog())

	ctx := context.Background()
	if srv.token != "" {
		srv.l.Infof(ctx, "bearer token required on /api routes")
	}
	if srv.rl != nil {
		srv.l.Infof(ctx, "rate limit: %.0f req/min per client", float64(srv.rl.rate)*60)
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
}

func (srv *HTTPServer) registerItemRoutes() {
	api := srv.gin.Group("/api/v1")
	api.Use(srv.rateLimit(), srv.requireToken())

	api.GET("/:collection", srv.listItems)
	api.POST("/:collection", srv.createItem)
	api.GET("/:collection/:id", srv.getItem)
	api.PUT("/:collection/:id", srv.updateItem)
	api.DELETE("/:collection/:id", srv.deleteItem)
}

// requestLog tags each request with an id and logs it once it completes.
func (srv *HTTPServer) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		ctx := logging.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		srv.l.Infof(ctx, "%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (srv *HTTPServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
