package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the collectors the marketplace exports.
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	MediaUploads      *prometheus.CounterVec
	MediaDeletes      *prometheus.CounterVec
	ReviewSubmissions *prometheus.CounterVec
	ReviewRetries     prometheus.Counter
	PublicReviewVotes *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		MediaUploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_uploads_total",
				Help: "Media uploads by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		MediaDeletes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_deletes_total",
				Help: "Media deletions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ReviewSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "review_submissions_total",
				Help: "Product review submissions by mode (created or edited)",
			},
			[]string{"mode"},
		),
		ReviewRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "review_write_conflicts_total",
				Help: "Review writes retried after a concurrent product update",
			},
		),
		PublicReviewVotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "public_review_votes_total",
				Help: "Helpfulness votes on public reviews by direction",
			},
			[]string{"direction"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.HTTPRequests,
		m.HTTPDuration,
		m.MediaUploads,
		m.MediaDeletes,
		m.ReviewSubmissions,
		m.ReviewRetries,
		m.PublicReviewVotes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNop returns collectors registered on a throwaway registry. Used by tests.
func NewNop() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err)
	}
	return m
}
