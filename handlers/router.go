// Package handlers exposes the task item store over HTTP with gin.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-board-api/logging"
	"task-board-api/response"
	"task-board-api/store"
)

// Options configures NewRouter.
type Options struct {
	Store    store.Store
	Updater  *store.Updater // created from Store when nil
	Logger   *log.Logger
	BasePath string
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(opts Options) *gin.Engine {
	logger := logging.OrDiscard(opts.Logger)

	r := gin.New()
	r.Use(RequestID(), Recovery(logger), RequestLogger(logger))

	r.NoRoute(func(c *gin.Context) {
		response.Write(c, response.NotFound[any]("Route not found."))
	})
	r.GET("/healthz", health(opts.Store))

	api := r.Group(opts.BasePath)
	NewTaskItemHandler(opts.Store, opts.Updater, logger, opts.BasePath).Register(api)
	return r
}

func health(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			response.Write(c, response.Error[any](http.StatusServiceUnavailable, "Store unavailable.").
				WithStatus(http.StatusServiceUnavailable))
			return
		}
		response.Write(c, response.Success(map[string]string{"status": "ok"}))
	}
}
