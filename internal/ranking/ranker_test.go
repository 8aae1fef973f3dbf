package ranking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labmedia/related-videos/internal/domain"
	"github.com/labmedia/related-videos/internal/ranking"
	"github.com/labmedia/related-videos/pkg/logger"
)

type stubCatalog struct {
	videos []domain.CandidateVideo
	err    error
	limit  int
}

func (s *stubCatalog) RecentUploads(_ context.Context, limit int) ([]domain.CandidateVideo, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.videos, nil
}

type stubCounter struct {
	counts map[string]int
	err    error
	ids    []string
}

func (s *stubCounter) CountClicksTo(_ context.Context, candidateIDs []string) (map[string]int, error) {
	s.ids = candidateIDs
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

// video builds a candidate published the given number of days ago.
func video(id string, ageDays int) domain.CandidateVideo {
	return domain.CandidateVideo{
		ID:          id,
		Title:       "title-" + id,
		PublishedAt: time.Now().Add(-time.Duration(ageDays)*24*time.Hour - time.Hour),
	}
}

func newRanker(cat ranking.Catalog, clicks ranking.ClickCounter) *ranking.Ranker {
	return ranking.New(cat, clicks, logger.NewNop(), ranking.DefaultOptions())
}

func TestRelated_ClicksPlusRecencyOrdering(t *testing.T) {
	// V1 published today with no clicks, V2 outside the recency window
	// with 5 clicks, V3 ten days old with no clicks.
	cat := &stubCatalog{videos: []domain.CandidateVideo{
		video("v1", 0),
		video("v2", 40),
		video("v3", 10),
	}}
	counter := &stubCounter{counts: map[string]int{"v2": 5}}

	got, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "v2", got[0].Video.ID)
	assert.Equal(t, "v1", got[1].Video.ID)
	assert.Equal(t, "v3", got[2].Video.ID)

	assert.Equal(t, 50, got[0].Score)
	assert.Equal(t, 30, got[1].Score)
	assert.Equal(t, 20, got[2].Score)
}

func TestRelated_RecencyMonotonic(t *testing.T) {
	// Equal click counts: the newer video must score strictly higher
	// while both are inside the recency window.
	cat := &stubCatalog{videos: []domain.CandidateVideo{
		video("older", 20),
		video("newer", 3),
	}}
	counter := &stubCounter{counts: map[string]int{"older": 2, "newer": 2}}

	got, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "newer", got[0].Video.ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRelated_ClickDominance(t *testing.T) {
	// One click (+10) outweighs 5 days of freshness, and a fresh unclicked
	// video outranks one past the recency window.
	cat := &stubCatalog{videos: []domain.CandidateVideo{
		video("fresh-unclicked", 5),
		video("clicked", 0),
		video("stale", 31),
	}}
	counter := &stubCounter{counts: map[string]int{"clicked": 1}}

	got, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "clicked", got[0].Video.ID)
	assert.Equal(t, 40, got[0].Score)
	assert.Equal(t, "fresh-unclicked", got[1].Video.ID)
	assert.Equal(t, 25, got[1].Score)
	assert.Equal(t, "stale", got[2].Video.ID)
	assert.Equal(t, 0, got[2].Score)
}

func TestRelated_ResultCount(t *testing.T) {
	videos := make([]domain.CandidateVideo, ranking.DefaultCandidatePoolSize)
	for i := range videos {
		videos[i] = video(string(rune('a'+i)), i)
	}
	cat := &stubCatalog{videos: videos}
	counter := &stubCounter{counts: map[string]int{}}
	ranker := newRanker(cat, counter)

	got, err := ranker.Related(context.Background(), "src", 0)
	require.NoError(t, err)
	assert.Len(t, got, ranking.DefaultResultCount)

	got, err = ranker.Related(context.Background(), "src", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// maxResults larger than the pool is capped at the pool size.
	got, err = ranker.Related(context.Background(), "src", 50)
	require.NoError(t, err)
	assert.Len(t, got, ranking.DefaultCandidatePoolSize)
}

func TestRelated_CounterFailureDegradesToRecency(t *testing.T) {
	cat := &stubCatalog{videos: []domain.CandidateVideo{
		video("old-popular", 25),
		video("new", 1),
	}}
	counter := &stubCounter{
		counts: map[string]int{"old-popular": 100},
		err:    errors.New("connection refused"),
	}

	got, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// With click data unavailable every candidate counts as zero clicks,
	// so recency alone decides the order.
	assert.Equal(t, "new", got[0].Video.ID)
	assert.Equal(t, "old-popular", got[1].Video.ID)
}

func TestRelated_CatalogFailure(t *testing.T) {
	cat := &stubCatalog{err: domain.ErrUpstream}
	counter := &stubCounter{counts: map[string]int{}}

	_, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestRelated_EmptyPool(t *testing.T) {
	cat := &stubCatalog{}
	counter := &stubCounter{counts: map[string]int{}}

	got, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRelated_TiesPreserveCatalogOrder(t *testing.T) {
	// Same age, same clicks: catalog order (publish date descending)
	// decides.
	cat := &stubCatalog{videos: []domain.CandidateVideo{
		video("first", 40),
		video("second", 45),
	}}
	counter := &stubCounter{counts: map[string]int{}}

	got, err := newRanker(cat, counter).Related(context.Background(), "src", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "first", got[0].Video.ID)
	assert.Equal(t, "second", got[1].Video.ID)
}

func TestRelated_FetchesConfiguredPoolSize(t *testing.T) {
	cat := &stubCatalog{videos: []domain.CandidateVideo{video("v", 0)}}
	counter := &stubCounter{counts: map[string]int{}}

	ranker := ranking.New(cat, counter, logger.NewNop(), ranking.Options{CandidatePoolSize: 4})
	_, err := ranker.Related(context.Background(), "src", 0)
	require.NoError(t, err)

	assert.Equal(t, 4, cat.limit)
	assert.Equal(t, []string{"v"}, counter.ids)
}
