package server

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vfa-khuongdv/gdrive-stories/internal/media"
	"github.com/vfa-khuongdv/gdrive-stories/internal/scheduler"
	"github.com/vfa-khuongdv/gdrive-stories/internal/stories"
)

const (
	homeMessage      = "✅ GDrive Stories API is working."
	missingIDMessage = "Missing file ID"
)

// StoriesLister lists the current stories
type StoriesLister interface {
	List(ctx context.Context) ([]stories.Record, error)
}

// MediaFetcher fetches a fully buffered media file
type MediaFetcher interface {
	Fetch(ctx context.Context, fileID string) (*media.Media, error)
}

// HealthReporter exposes the last upstream probe result and the probe job
type HealthReporter interface {
	Status() scheduler.Status
	GetScheduledJobs() []scheduler.JobInfo
}

// Handler serves the HTTP endpoints
type Handler struct {
	stories StoriesLister
	media   MediaFetcher
	health  HealthReporter
}

// NewHandler creates a new Handler. health may be nil.
func NewHandler(storiesLister StoriesLister, mediaFetcher MediaFetcher, health HealthReporter) *Handler {
	return &Handler{
		stories: storiesLister,
		media:   mediaFetcher,
		health:  health,
	}
}

// Home confirms the service is up
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, homeMessage)
}

// Ping answers pong
func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// ListStories serves GET /stories
func (h *Handler) ListStories(c *gin.Context) {
	records, err := h.stories.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Media serves GET /media?id=<fileId>
func (h *Handler) Media(c *gin.Context) {
	fileID := c.Query("id")
	if fileID == "" {
		c.String(http.StatusBadRequest, missingIDMessage)
		return
	}

	file, err := h.media.Fetch(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, media.ErrMissingFileID) {
			c.String(http.StatusBadRequest, missingIDMessage)
			return
		}
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Error: %s", err.Error())
		return
	}

	var headers map[string]string
	if file.Name != "" {
		headers = map[string]string{
			"Content-Disposition": mime.FormatMediaType("inline", map[string]string{"filename": file.Name}),
		}
	}
	c.DataFromReader(http.StatusOK, int64(len(file.Content)), file.MimeType, bytes.NewReader(file.Content), headers)
}

// Health reports the last Drive probe result
func (h *Handler) Health(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "unknown"})
		return
	}

	status := h.health.Status()
	jobs := h.health.GetScheduledJobs()
	switch {
	case !status.Checked:
		c.JSON(http.StatusOK, gin.H{"status": "unknown", "probe": status, "jobs": jobs})
	case status.Healthy:
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "probe": status, "jobs": jobs})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "probe": status, "jobs": jobs})
	}
}
