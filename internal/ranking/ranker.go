// Package ranking produces ordered related-video suggestions by combining
// historical click counts with a linearly decaying recency bonus.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/labmedia/related-videos/internal/domain"
	"github.com/labmedia/related-videos/internal/telemetry"
	"github.com/labmedia/related-videos/pkg/logger"
)

// Catalog supplies candidate videos from the external video catalog.
type Catalog interface {
	RecentUploads(ctx context.Context, limit int) ([]domain.CandidateVideo, error)
}

// ClickCounter supplies aggregate click counts from the click store.
type ClickCounter interface {
	CountClicksTo(ctx context.Context, candidateIDs []string) (map[string]int, error)
}

// Options holds the scoring constants. Zero values fall back to defaults.
type Options struct {
	// ClickWeight is the score contribution of one historical click.
	ClickWeight int
	// RecencyWindowDays is the window over which the recency bonus decays
	// linearly to zero.
	RecencyWindowDays int
	// CandidatePoolSize is how many recent uploads are fetched for scoring.
	CandidatePoolSize int
	// ResultCount is the default number of suggestions returned.
	ResultCount int
}

// Default scoring constants. One click outweighs up to ClickWeight days of
// freshness; anything older than the window contributes no recency score.
const (
	DefaultClickWeight       = 10
	DefaultRecencyWindowDays = 30
	DefaultCandidatePoolSize = 12
	DefaultResultCount       = 6
)

// DefaultOptions returns the default scoring constants.
func DefaultOptions() Options {
	return Options{
		ClickWeight:       DefaultClickWeight,
		RecencyWindowDays: DefaultRecencyWindowDays,
		CandidatePoolSize: DefaultCandidatePoolSize,
		ResultCount:       DefaultResultCount,
	}
}

// Ranker computes ordered related-video suggestions for a source video.
// It mutates no state; every ranking is recomputed from the candidate pool
// and the click aggregates at request time.
type Ranker struct {
	catalog Catalog
	clicks  ClickCounter
	log     logger.Logger
	opts    Options
	now     func() time.Time
}

// New creates a Ranker. Zero option fields take the package defaults.
func New(cat Catalog, clicks ClickCounter, log logger.Logger, opts Options) *Ranker {
	if opts.ClickWeight == 0 {
		opts.ClickWeight = DefaultClickWeight
	}
	if opts.RecencyWindowDays == 0 {
		opts.RecencyWindowDays = DefaultRecencyWindowDays
	}
	if opts.CandidatePoolSize == 0 {
		opts.CandidatePoolSize = DefaultCandidatePoolSize
	}
	if opts.ResultCount == 0 {
		opts.ResultCount = DefaultResultCount
	}

	return &Ranker{
		catalog: cat,
		clicks:  clicks,
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
}

// Related returns the top suggestions for the given source video, ordered
// by descending score. maxResults overrides the configured result count
// when positive, capped at the candidate pool size.
//
// The pool is the channel's latest uploads; the source video itself may
// appear in it. When the click aggregation fails the ranking degrades to
// recency-only ordering instead of failing the request.
func (r *Ranker) Related(ctx context.Context, sourceVideoID string, maxResults int) ([]domain.RankedSuggestion, error) {
	candidates, err := r.catalog.RecentUploads(ctx, r.opts.CandidatePoolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates for %s: %w", sourceVideoID, err)
	}

	counts := r.countClicks(ctx, candidates)

	now := r.now()
	suggestions := make([]domain.RankedSuggestion, 0, len(candidates))
	for _, candidate := range candidates {
		suggestions = append(suggestions, domain.RankedSuggestion{
			Video: candidate,
			Score: r.score(candidate, counts[candidate.ID], now),
		})
	}

	// Stable sort keeps catalog order (publish date descending) on ties.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	return suggestions[:min(r.resultCount(maxResults), len(suggestions))], nil
}

// countClicks fetches click aggregates for the candidate pool. A storage
// failure yields zero counts for every candidate rather than an error:
// telemetry must never block content delivery.
func (r *Ranker) countClicks(ctx context.Context, candidates []domain.CandidateVideo) map[string]int {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	counts, err := r.clicks.CountClicksTo(ctx, ids)
	if err != nil {
		telemetry.RankingsDegraded.Inc()
		r.log.Warn("Click aggregation failed, degrading to recency-only ranking",
			logger.Error(err),
			logger.Int("candidates", len(ids)),
		)
		return map[string]int{}
	}

	return counts
}

// score computes clicks*ClickWeight plus a recency bonus that decays
// linearly from RecencyWindowDays to zero over the window.
func (r *Ranker) score(video domain.CandidateVideo, clicks int, now time.Time) int {
	ageDays := int(now.Sub(video.PublishedAt).Hours() / 24)
	if ageDays < 0 {
		ageDays = 0
	}

	recency := r.opts.RecencyWindowDays - ageDays
	if recency < 0 {
		recency = 0
	}

	return clicks*r.opts.ClickWeight + recency
}

// resultCount resolves the requested result count against the configured
// default and the candidate pool size.
func (r *Ranker) resultCount(maxResults int) int {
	n := r.opts.ResultCount
	if maxResults > 0 {
		n = maxResults
	}
	if n > r.opts.CandidatePoolSize {
		n = r.opts.CandidatePoolSize
	}
	return n
}
