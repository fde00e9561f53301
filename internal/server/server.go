package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"capburn/internal/domain/editplan"
	"capburn/internal/types"
	"capburn/internal/usecase"
)

// Renderer runs one full process (transcription plus render). Satisfied by
// usecase.Usecase; handler tests substitute fakes.
type Renderer interface {
	Process(ctx context.Context, in usecase.ProcessInput) (usecase.RenderResult, error)
}

// Server is the HTTP transport around the render pipeline. The mutex
// serializes renders: scratch isolation is per-job, but the pipeline is
// designed for one in-flight render per process.
type Server struct {
	uc      Renderer
	dataDir string
	format  string

	mu         sync.Mutex
	lastOutput string
	settings   types.ThemeSettings
}

func New(uc Renderer, dataDir, captionFormat string) *Server {
	return &Server{
		uc:       uc,
		dataDir:  dataDir,
		format:   captionFormat,
		settings: types.ThemeSettings{Theme: "default"},
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsAllowAll())

	r.GET("/", s.handleInfo)
	r.GET("/health", s.handleHealth)
	r.POST("/process", s.handleProcess)
	r.GET("/output-video", s.handleOutputVideo)
	r.POST("/edit", s.handleEdit)
	return r
}

func corsAllowAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleProcess(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "video file is required"})
		return
	}
	settings := parseThemeSettings(c.PostForm("themeSettings"))

	s.mu.Lock()
	defer s.mu.Unlock()

	jobDir := filepath.Join(s.dataDir, "jobs", uuid.NewString())
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	inputPath := filepath.Join(jobDir, "input"+ext)
	if err := c.SaveUploadedFile(file, inputPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	log.Printf("video saved: %s", inputPath)

	res, err := s.uc.Process(c.Request.Context(), usecase.ProcessInput{
		VideoPath:  inputPath,
		Settings:   settings,
		WorkDir:    jobDir,
		OutputPath: filepath.Join(jobDir, "output.mp4"),
		Format:     s.format,
	})
	if err != nil {
		// Pipeline failures are reported in the response body, not as a
		// transport error.
		log.Printf("processing failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	s.lastOutput = res.OutputPath
	s.settings = settings
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Video processed successfully"})
}

func (s *Server) handleOutputVideo(c *gin.Context) {
	s.mu.Lock()
	out := s.lastOutput
	s.mu.Unlock()

	if out == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found. Please process a video first."})
		return
	}
	if _, err := os.Stat(out); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found. Please process a video first."})
		return
	}

	// Timestamped download name defeats path-based caching; the content at
	// this route changes per request.
	name := fmt.Sprintf("enhanced_video_%d.mp4", time.Now().Unix())
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.FileAttachment(out, name)
}

type editRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleEdit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "command is required"})
		return
	}

	s.mu.Lock()
	s.settings = editplan.Apply(req.Command, s.settings)
	updated := s.settings
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"status": "success", "theme_settings": updated})
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "capburn",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// parseThemeSettings decodes the themeSettings form field. Malformed or
// missing payloads fall back to the default theme; a bad payload never
// rejects the request.
func parseThemeSettings(raw string) types.ThemeSettings {
	settings := types.ThemeSettings{Theme: "default"}
	if raw == "" || raw == "{}" {
		return settings
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return types.ThemeSettings{Theme: "default"}
	}
	if settings.Theme == "" {
		settings.Theme = "default"
	}
	return settings
}
