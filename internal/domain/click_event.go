package domain

import "time"

// ClickEvent is one observed navigation from a source video to a suggested
// video. Events are append-only: they are written once and never updated.
type ClickEvent struct {
	ID          int64     `db:"id"            json:"id"`
	FromVideoID string    `db:"from_video_id" json:"fromVideoId"`
	ToVideoID   string    `db:"to_video_id"   json:"toVideoId"`
	UserAgent   string    `db:"user_agent"    json:"userAgent,omitempty"`
	SourceIP    string    `db:"source_ip"     json:"sourceIp,omitempty"`
	OccurredAt  time.Time `db:"occurred_at"   json:"occurredAt"`
}
