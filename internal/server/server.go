// Package server exposes the search pipeline over HTTP for chat frontends.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gkotua/jobradar/internal/logger"
	"github.com/gkotua/jobradar/internal/search"
	"github.com/gkotua/jobradar/internal/store"
)

// SearchRequest is the chat payload accepted by POST /api/v1/search.
type SearchRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"user_id"`
}

type Server struct {
	svc    *search.Service
	store  *store.Store
	logger *zap.Logger
}

func New(svc *search.Service, st *store.Store, log *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		store:  st,
		logger: logger.NopIfNil(log),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.POST("/search", s.handleSearch)
		api.GET("/jobs", s.handleJobs)
	}

	return router
}

// Run serves the API until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	s.logger.Info("processing search",
		zap.String("user_id", req.UserID),
		zap.String("message", logger.TruncateForLog(req.Message, 120)),
	)

	result := s.svc.Process(c.Request.Context(), req.UserID, req.Message)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleJobs(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	recent, err := s.store.RecentJobs(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("listing stored postings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": recent.Items, "count": recent.Len()})
}
