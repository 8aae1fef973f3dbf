// Package telemetry exposes Prometheus metrics for the related-videos
// service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ClicksRecorded counts click events durably appended to the store.
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "related_videos_clicks_recorded_total",
		Help: "Click events durably recorded",
	})

	// ClicksRejected counts click requests rejected by validation.
	ClicksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "related_videos_clicks_rejected_total",
		Help: "Click requests rejected as invalid",
	})

	// ClicksDropped counts click events lost to storage failures or
	// skipped for bot traffic.
	ClicksDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "related_videos_clicks_dropped_total",
		Help: "Click events not recorded, by reason",
	}, []string{"reason"})

	// RankingsServed counts successful related-video responses.
	RankingsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "related_videos_rankings_served_total",
		Help: "Related-video rankings served",
	})

	// RankingsDegraded counts rankings served without click data.
	RankingsDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "related_videos_rankings_degraded_total",
		Help: "Rankings degraded to recency-only ordering",
	})

	// CatalogRequestDuration observes catalog fetch latency in seconds.
	CatalogRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "related_videos_catalog_request_duration_seconds",
		Help:    "External catalog request duration",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
