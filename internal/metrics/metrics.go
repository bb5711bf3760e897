package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kwresearch/internal/db"
	"kwresearch/internal/logging"
)

var (
	keywordLookupDesc = prometheus.NewDesc(
		"kwresearch_keyword_lookups_total",
		"Total keyword lookup count by operation",
		[]string{"keyword", "operation"},
		nil,
	)

	adsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kwresearch_google_ads_requests_total",
		Help: "Google Ads API requests by operation and outcome",
	}, []string{"operation", "outcome"})

	adsLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kwresearch_google_ads_request_duration_seconds",
		Help:    "Google Ads API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kwresearch_google_ads_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	credentialsValid = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kwresearch_google_ads_credentials_valid",
		Help: "1 when the refresh token last produced an access token",
	})
)

// Outcome labels for Google Ads requests.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// ObserveAdsRequest records one Google Ads API call.
func ObserveAdsRequest(operation string, d time.Duration, err error) {
	outcome := OutcomeSuccess
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = OutcomeTimeout
	case err != nil:
		outcome = OutcomeError
	}
	adsRequests.WithLabelValues(operation, outcome).Inc()
	adsLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// SetBreakerState exports the state of a named circuit breaker.
func SetBreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}

// SetCredentialsValid exports the result of the last credentials check.
func SetCredentialsValid(ok bool) {
	if ok {
		credentialsValid.Set(1)
		return
	}
	credentialsValid.Set(0)
}

// KeywordCollector is a custom Prometheus collector that reads keyword lookup
// counts from the database on each scrape.
type KeywordCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *KeywordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordLookupDesc
}

// Collect queries the database for all keyword lookups and emits them as counters.
func (c *KeywordCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllKeywordLookups(context.Background())
	if err != nil {
		logging.Error().Err(err).Msg("failed to collect keyword lookup metrics")
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			keywordLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Keyword,
			l.Operation,
		)
	}
}

// Recorder provides async keyword lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Without it lookups are not recorded.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&KeywordCollector{db: database})
	})
}

// RecordKeywordLookup asynchronously records that keyword was researched by
// operation. Both strings are copied, so callers may pass request-scoped values.
func RecordKeywordLookup(keyword, operation string) {
	if recorder == nil {
		return
	}
	keyword, operation = strings.Clone(keyword), strings.Clone(operation)
	go func() {
		if err := recorder.db.IncrementKeywordLookup(context.Background(), keyword, operation); err != nil {
			logging.Error().Err(err).Str("keyword", keyword).Str("operation", operation).Msg("failed to record keyword lookup")
		}
	}()
}
