package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labmedia/related-videos/internal/domain"
	"github.com/labmedia/related-videos/internal/handler"
	"github.com/labmedia/related-videos/pkg/logger"
)

type stubRanker struct {
	suggestions []domain.RankedSuggestion
	err         error

	sourceVideoID string
	maxResults    int
}

func (s *stubRanker) Related(_ context.Context, sourceVideoID string, maxResults int) ([]domain.RankedSuggestion, error) {
	s.sourceVideoID = sourceVideoID
	s.maxResults = maxResults
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func newRelatedRouter(ranker *stubRanker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := handler.NewRelatedHandler(ranker, logger.NewNop())
	router.GET("/videos/:id/related", h.HandleRelated)
	return router
}

func getRelated(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRelated(t *testing.T) {
	published := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	ranker := &stubRanker{suggestions: []domain.RankedSuggestion{
		{
			Video: domain.CandidateVideo{
				ID:           "video-top",
				Title:        "Top Video",
				Description:  "The most clicked one",
				ThumbnailURL: "https://img.example/top.jpg",
				PublishedAt:  published,
			},
			Score: 50,
		},
		{
			Video: domain.CandidateVideo{ID: "video-second", Title: "Runner Up"},
			Score: 30,
		},
	}}
	router := newRelatedRouter(ranker)

	w := getRelated(router, "/videos/source-abc/related")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ranker.sourceVideoID != "source-abc" {
		t.Errorf("Expected source video source-abc, got %q", ranker.sourceVideoID)
	}

	var resp []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(resp))
	}

	first := resp[0]
	if first["id"] != "video-top" {
		t.Errorf("Expected first id video-top, got %v", first["id"])
	}
	if first["title"] != "Top Video" {
		t.Errorf("Expected title Top Video, got %v", first["title"])
	}
	if first["description"] != "The most clicked one" {
		t.Errorf("Unexpected description: %v", first["description"])
	}
	if first["thumbnail"] != "https://img.example/top.jpg" {
		t.Errorf("Unexpected thumbnail: %v", first["thumbnail"])
	}
	if _, ok := first["uploadDate"]; !ok {
		t.Error("Expected uploadDate field")
	}
	if _, ok := first["score"]; ok {
		t.Error("Score must not be exposed on the wire")
	}

	if resp[1]["id"] != "video-second" {
		t.Errorf("Expected second id video-second, got %v", resp[1]["id"])
	}
}

func TestHandleRelated_EmptyResult(t *testing.T) {
	router := newRelatedRouter(&stubRanker{})

	w := getRelated(router, "/videos/source-abc/related")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestHandleRelated_RankerError(t *testing.T) {
	router := newRelatedRouter(&stubRanker{err: domain.ErrUpstream})

	w := getRelated(router, "/videos/source-abc/related")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "failed to fetch related videos" {
		t.Errorf("Unexpected error message: %q", resp["error"])
	}
}

func TestHandleRelated_MaxResultsParam(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{"absent", "/videos/v/related", 0},
		{"valid", "/videos/v/related?maxResults=3", 3},
		{"zero", "/videos/v/related?maxResults=0", 0},
		{"negative", "/videos/v/related?maxResults=-2", 0},
		{"not a number", "/videos/v/related?maxResults=abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := &stubRanker{}
			router := newRelatedRouter(ranker)

			w := getRelated(router, tt.path)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if ranker.maxResults != tt.want {
				t.Errorf("Expected maxResults %d, got %d", tt.want, ranker.maxResults)
			}
		})
	}
}
