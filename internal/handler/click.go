package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labmedia/related-videos/internal/domain"
	"github.com/labmedia/related-videos/internal/telemetry"
	"github.com/labmedia/related-videos/pkg/logger"
)

// ClickWriter persists a single click event.
type ClickWriter interface {
	InsertClick(ctx context.Context, event *domain.ClickEvent) error
}

// ClickHandler records related-video click telemetry. Recording is
// best-effort from the client's perspective: the portal fires the request
// and ignores the outcome, so a failure here must never affect the page
// the user is viewing.
type ClickHandler struct {
	store  ClickWriter
	logger logger.Logger
}

// NewClickHandler creates a ClickHandler with the given dependencies.
func NewClickHandler(store ClickWriter, log logger.Logger) *ClickHandler {
	return &ClickHandler{store: store, logger: log}
}

// clickRequest is the expected request body.
type clickRequest struct {
	ToVideoID string `json:"toVideoId"`
}

// HandleClick validates and durably records one click event.
// POST /videos/:id/click with body {"toVideoId": "..."}.
func (h *ClickHandler) HandleClick(c *gin.Context) {
	var body clickRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		telemetry.ClicksRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if body.ToVideoID == "" {
		telemetry.ClicksRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing toVideoId"})
		return
	}

	// Bot clicks are acknowledged but never stored; they would skew the
	// ranking aggregates.
	if c.GetBool("is_bot") {
		telemetry.ClicksDropped.WithLabelValues("bot").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	event := domain.ClickEvent{
		FromVideoID: c.Param("id"),
		ToVideoID:   body.ToVideoID,
		UserAgent:   c.Request.UserAgent(),
		SourceIP:    c.ClientIP(),
	}

	if err := h.store.InsertClick(c.Request.Context(), &event); err != nil {
		if errors.Is(err, domain.ErrMissingToVideoID) {
			telemetry.ClicksRejected.Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing toVideoId"})
			return
		}

		telemetry.ClicksDropped.WithLabelValues("storage").Inc()
		h.logger.Error("Failed to record click event",
			logger.Error(err),
			logger.String("from_video_id", event.FromVideoID),
			logger.String("to_video_id", event.ToVideoID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record click"})
		return
	}

	telemetry.ClicksRecorded.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
