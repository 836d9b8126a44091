// Package server exposes the content service over a small HTTP read
// API. Rendering and authentication live in the web client; this server
// only hands lesson data to it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	lsync "lsync-go/internal/sync"
)

// Server wraps the gin engine serving the read API.
type Server struct {
	addr   string
	engine *gin.Engine
	logger lsync.Logger
}

// New builds a Server over the given content service. allowedOrigins
// configures CORS for the web client; empty means localhost dev origins.
func New(addr string, content *lsync.ContentService, allowedOrigins []string, logger lsync.Logger) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.GET("/lessons", listLessons(content))
		api.GET("/lessons/:key", getLesson(content))
	}

	return &Server{addr: addr, engine: engine, logger: logger}
}

// Handler returns the underlying HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("content server listening", "addr", s.addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type lessonResponse struct {
	Title       string          `json:"title"`
	RemoteID    string          `json:"remoteId,omitempty"`
	Description string          `json:"description"`
	Difficulty  string          `json:"difficulty"`
	Duration    string          `json:"duration"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
	TotalSlides int             `json:"totalSlides"`
	Source      lsync.Source    `json:"source"`
	Slides      []slideResponse `json:"slides,omitempty"`
}

type slideResponse struct {
	ID      string         `json:"id"`
	Order   int            `json:"order"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Content map[string]any `json:"content,omitempty"`
}

func toResponse(lesson lsync.Lesson) lessonResponse {
	resp := lessonResponse{
		Title:       lesson.Title,
		RemoteID:    lesson.RemoteID,
		Description: lesson.Description,
		Difficulty:  lesson.Difficulty,
		Duration:    lesson.Duration,
		Icon:        lesson.Icon,
		Color:       lesson.Color,
		TotalSlides: lesson.TotalSlides,
		Source:      lesson.Source,
	}
	for _, slide := range lesson.Slides {
		resp.Slides = append(resp.Slides, slideResponse{
			ID:      slide.ID,
			Order:   slide.Order,
			Type:    slide.Type,
			Title:   slide.Title,
			Content: slide.Content,
		})
	}
	return resp
}

func listLessons(content *lsync.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lessons, err := content.GetAllLessons(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]lessonResponse, 0, len(lessons))
		for _, lesson := range lessons {
			out = append(out, toResponse(lesson))
		}
		c.JSON(http.StatusOK, gin.H{"lessons": out})
	}
}

func getLesson(content *lsync.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lesson, err := content.GetLessonWithSlides(c.Request.Context(), c.Param("key"))
		if err != nil {
			if errors.Is(err, lsync.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toResponse(lesson))
	}
}
