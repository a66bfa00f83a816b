package metrics

import (
	"errors"
	"net/http"
	"time"

	ierr "go-firestore-deals/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Document store metrics
	storeOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_store_ops_total",
			Help: "Total number of document store operations",
		},
		[]string{"op", "collection", "result"},
	)

	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deals_store_op_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op", "collection"},
	)

	// Ledger metrics
	votesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_votes_total",
			Help: "Total number of vote toggles by item kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	reviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_reviews_total",
			Help: "Total number of review submissions by outcome",
		},
		[]string{"outcome"},
	)

	ownerCounterFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deals_owner_counter_failures_total",
			Help: "Owner totalUpvotes adjustments that failed and were left to drift",
		},
	)

	// Batch fetch metrics
	batchChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_batch_chunks_total",
			Help: "Chunk queries issued by the batch fetcher",
		},
		[]string{"result"},
	)

	leaderboardSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deals_leaderboard_users",
			Help: "Number of users in the last computed leaderboard",
		},
	)
)

func ObserveStoreOp(op, collection string, start time.Time, err error) {
	storeOpsTotal.WithLabelValues(op, collection, resultLabel(err)).Inc()
	storeOpDuration.WithLabelValues(op, collection).Observe(time.Since(start).Seconds())
}

func RecordVote(kind, outcome string) {
	votesTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordReview(outcome string) {
	reviewsTotal.WithLabelValues(outcome).Inc()
}

func RecordOwnerCounterFailure() {
	ownerCounterFailuresTotal.Inc()
}

func RecordBatchChunk(err error) {
	batchChunksTotal.WithLabelValues(resultLabel(err)).Inc()
}

func SetLeaderboardSize(n int) {
	leaderboardSize.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ierr.NotFound):
		return "not_found"
	case errors.Is(err, ierr.ValidationError):
		return "invalid"
	case errors.Is(err, ierr.DecodeError):
		return "decode_error"
	default:
		return "error"
	}
}
