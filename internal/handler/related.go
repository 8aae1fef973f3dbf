package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labmedia/related-videos/internal/domain"
	"github.com/labmedia/related-videos/internal/telemetry"
	"github.com/labmedia/related-videos/pkg/logger"
)

// Ranker produces ordered related-video suggestions for a source video.
type Ranker interface {
	Related(ctx context.Context, sourceVideoID string, maxResults int) ([]domain.RankedSuggestion, error)
}

// RelatedHandler serves ranked related-video suggestions.
type RelatedHandler struct {
	ranker Ranker
	logger logger.Logger
}

// NewRelatedHandler creates a RelatedHandler with the given dependencies.
func NewRelatedHandler(ranker Ranker, log logger.Logger) *RelatedHandler {
	return &RelatedHandler{ranker: ranker, logger: log}
}

// relatedVideo is the wire shape of one suggestion. The score is used for
// ordering only and is not exposed.
type relatedVideo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	UploadDate  time.Time `json:"uploadDate"`
}

// HandleRelated returns ranked related videos for a source video.
// GET /videos/:id/related?maxResults=N.
func (h *RelatedHandler) HandleRelated(c *gin.Context) {
	sourceVideoID := c.Param("id")
	maxResults := parseMaxResults(c.Query("maxResults"))

	suggestions, err := h.ranker.Related(c.Request.Context(), sourceVideoID, maxResults)
	if err != nil {
		h.logger.Error("Failed to rank related videos",
			logger.Error(err),
			logger.String("source_video_id", sourceVideoID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch related videos"})
		return
	}

	telemetry.RankingsServed.Inc()

	out := make([]relatedVideo, len(suggestions))
	for i, s := range suggestions {
		out[i] = relatedVideo{
			ID:          s.Video.ID,
			Title:       s.Video.Title,
			Description: s.Video.Description,
			Thumbnail:   s.Video.ThumbnailURL,
			UploadDate:  s.Video.PublishedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}

// parseMaxResults parses the maxResults query parameter. Absent or invalid
// values yield 0, which means "use the configured result count".
func parseMaxResults(raw string) int {
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
