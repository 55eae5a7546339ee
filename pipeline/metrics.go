package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listingsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wohnmatch_pipeline_listings_received_total",
		Help: "Raw listings handed to the pipeline.",
	}, []string{"platform"})

	listingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wohnmatch_pipeline_listings_rejected_total",
		Help: "Listings dropped by validation.",
	}, []string{"platform"})

	listingsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wohnmatch_pipeline_listings_upserted_total",
		Help: "Listings written to the store.",
	}, []string{"platform"})

	listingsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wohnmatch_pipeline_listings_failed_total",
		Help: "Listings that could not be persisted.",
	}, []string{"platform"})

	matchesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wohnmatch_pipeline_matches_created_total",
		Help: "Matches at or above the threshold written to the store.",
	}, []string{"platform"})

	matchUsersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wohnmatch_pipeline_match_users_failed_total",
		Help: "Users whose match persistence failed in a batch.",
	})

	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wohnmatch_pipeline_batch_duration_seconds",
		Help:    "End-to-end duration of one pipeline batch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})
)
