package domain

import "time"

// CandidateVideo is a video eligible to be suggested as related. It is
// owned by the external catalog; CandidateVideo.ID joins against
// ClickEvent.ToVideoID when aggregating click counts.
type CandidateVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PublishedAt  time.Time `json:"publishedAt"`
}

// RankedSuggestion pairs a candidate video with its computed score.
// Suggestions are request-scoped and never persisted; the score exists
// only to determine output order.
type RankedSuggestion struct {
	Video CandidateVideo
	Score int
}
