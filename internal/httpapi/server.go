package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Uzipoo/ToDo-app/internal/service"
)

// Server is the JSON API a browser view talks to.
type Server struct {
	store  *service.TaskStore
	router *gin.Engine
}

// NewServer creates a new HTTP server
func NewServer(store *service.TaskStore) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		store:  store,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleAddTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.PUT("/filter", s.handleSetFilter)
		api.GET("/stats", s.handleStats)
	}

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// NewHTTPServer wraps the router in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
