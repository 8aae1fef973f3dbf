// Package storage implements the durable click-event store on PostgreSQL.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/labmedia/related-videos/internal/domain"
)

// Store provides append and aggregate access to the video_clicks table.
// Click events are append-only; the store never updates or deletes rows.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by the given database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// InsertClick appends one click event. The event's OccurredAt is set to the
// current time when zero. Returns domain.ErrMissingToVideoID before any I/O
// when the target video ID is empty; storage failures wrap domain.ErrStorage.
func (s *Store) InsertClick(ctx context.Context, event *domain.ClickEvent) error {
	if event.ToVideoID == "" {
		return domain.ErrMissingToVideoID
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	query := `
		INSERT INTO video_clicks (from_video_id, to_video_id, user_agent, source_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		event.FromVideoID,
		event.ToVideoID,
		event.UserAgent,
		event.SourceIP,
		event.OccurredAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("%w: insert click event: %v", domain.ErrStorage, err)
	}

	return nil
}

// CountClicksTo returns the total click count per candidate ID across all
// time and all source videos. IDs with no recorded clicks are absent from
// the result; callers treat absent as zero. The counts come from a single
// grouped aggregation, not per-ID queries.
func (s *Store) CountClicksTo(ctx context.Context, candidateIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT to_video_id, COUNT(*) AS clicks
		FROM video_clicks
		WHERE to_video_id = ANY($1)
		GROUP BY to_video_id
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(candidateIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: count clicks: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			videoID string
			clicks  int
		)
		if scanErr := rows.Scan(&videoID, &clicks); scanErr != nil {
			return nil, fmt.Errorf("%w: scan click count: %v", domain.ErrStorage, scanErr)
		}
		counts[videoID] = clicks
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: iterate click counts: %v", domain.ErrStorage, rowsErr)
	}

	return counts, nil
}

// Ping verifies database connectivity. Used by the health endpoint.
func (s *Store) Ping() error {
	return s.db.Ping()
}
