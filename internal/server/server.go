// Package server exposes the extraction pipeline and video library over a
// JSON HTTP API. Responses use a uniform envelope:
// {"success": true, "data": ...} or {"success": false, "error": "..."}.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"streamdock/internal/config"
	"streamdock/internal/extract"
	"streamdock/internal/httputil"
	"streamdock/internal/library"
	"streamdock/internal/media"
)

// Server wires the pipeline and library store into HTTP routes.
type Server struct {
	cfg      *config.Config
	pipeline *extract.Pipeline
	store    *library.Store
	engine   *gin.Engine
}

// New builds the HTTP server and its routes.
func New(cfg *config.Config, pipeline *extract.Pipeline, store *library.Store) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), corsMiddleware())

	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		engine:   engine,
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/extract", s.handleExtract)
	api.GET("/library", s.handleListLibrary)
	api.POST("/library", s.handleSaveVideo)
	api.PATCH("/library/:id", s.handleUpdateVideo)
	api.DELETE("/library/:id", s.handleDeleteVideo)

	return s
}

// Run starts listening on the configured address, blocking until the
// listener fails.
func (s *Server) Run() error {
	return s.engine.Run(s.cfg.Listen)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// corsMiddleware allows all origins and short-circuits preflight requests
// with an empty 200 response.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

type extractRequest struct {
	URL string `json:"url"`
}

// handleExtract runs the extraction pipeline for a submitted URL.
// Validation failures map to 400, exhausted strategies to 404, and
// timeouts or unexpected failures to 500.
func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		respondError(c, http.StatusBadRequest, "URL is required")
		return
	}

	video, err := s.pipeline.Extract(c.Request.Context(), req.URL)
	if err != nil {
		switch {
		case httputil.IsValidationError(err):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, extract.ErrNoMedia):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, extract.ErrTimeout):
			respondError(c, http.StatusInternalServerError, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to extract video")
		}
		return
	}

	respondData(c, video)
}

func (s *Server) handleListLibrary(c *gin.Context) {
	videos, err := s.store.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load library")
		return
	}
	respondData(c, videos)
}

type saveRequest struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Thumbnail string   `json:"thumbnail"`
	Source    string   `json:"source"`
	Tags      []string `json:"tags"`
	FolderID  string   `json:"folderId"`
}

func (s *Server) handleSaveVideo(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		respondError(c, http.StatusBadRequest, "url is required")
		return
	}

	if req.Title == "" {
		req.Title = media.DefaultTitle
	}

	video, err := s.store.Add(media.LibraryVideo{
		Title:     req.Title,
		URL:       req.URL,
		Thumbnail: req.Thumbnail,
		Source:    req.Source,
		Tags:      req.Tags,
		FolderID:  req.FolderID,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save video")
		return
	}

	respondData(c, video)
}

func (s *Server) handleUpdateVideo(c *gin.Context) {
	var updates library.Updates
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "invalid update payload")
		return
	}

	err := s.store.Update(c.Param("id"), updates)
	if errors.Is(err, library.ErrNotFound) {
		respondError(c, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update video")
		return
	}

	respondData(c, gin.H{"id": c.Param("id")})
}

func (s *Server) handleDeleteVideo(c *gin.Context) {
	err := s.store.Delete(c.Param("id"))
	if errors.Is(err, library.ErrNotFound) {
		respondError(c, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete video")
		return
	}

	respondData(c, gin.H{"id": c.Param("id")})
}
