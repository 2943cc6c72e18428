// Package metrics exposes Prometheus counters for the conversation
// pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	turnsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qualibot_turns_total",
			Help: "Total number of completed conversation turns",
		},
	)

	turnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qualibot_turn_duration_seconds",
			Help:    "End-to-end turn processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_messages_total",
			Help: "Total number of messages persisted",
		},
		[]string{"role"},
	)

	intentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_intents_total",
			Help: "Total number of intent classifications",
		},
		[]string{"intent"},
	)

	entitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_entities_total",
			Help: "Total number of extracted entities",
		},
		[]string{"type"},
	)

	sessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qualibot_sessions_created_total",
			Help: "Total number of sessions created",
		},
	)

	sessionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qualibot_sessions_expired_total",
			Help: "Total number of sessions expired",
		},
	)

	briefsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_briefs_created_total",
			Help: "Total number of briefs created",
		},
		[]string{"property_type"},
	)

	briefsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_briefs_submitted_total",
			Help: "Total number of briefs submitted",
		},
		[]string{"property_type"},
	)

	piiDetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_pii_detections_total",
			Help: "Total number of PII occurrences masked",
		},
		[]string{"type"},
	)

	blockedMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_blocked_messages_total",
			Help: "Total number of messages rejected by the content filter",
		},
		[]string{"reason"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualibot_errors_total",
			Help: "Total number of errors by code",
		},
		[]string{"code"},
	)

	initOnce sync.Once
)

// Init registers all metrics with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			turnsTotal,
			turnDuration,
			messagesTotal,
			intentsTotal,
			entitiesTotal,
			sessionsCreatedTotal,
			sessionsExpiredTotal,
			briefsCreatedTotal,
			briefsSubmittedTotal,
			piiDetectionsTotal,
			blockedMessagesTotal,
			errorsTotal,
		)
	})
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTurn records one completed conversation turn.
func RecordTurn(duration time.Duration) {
	turnsTotal.Inc()
	turnDuration.Observe(duration.Seconds())
}

// RecordMessage records a persisted message by role.
func RecordMessage(role string) {
	messagesTotal.WithLabelValues(role).Inc()
}

// RecordIntent records an intent classification. Unmatched messages are
// counted under "none".
func RecordIntent(intent string) {
	if intent == "" {
		intent = "none"
	}
	intentsTotal.WithLabelValues(intent).Inc()
}

// RecordEntity records one extracted entity by type.
func RecordEntity(entityType string) {
	entitiesTotal.WithLabelValues(entityType).Inc()
}

// RecordSessionCreated records a new session.
func RecordSessionCreated() {
	sessionsCreatedTotal.Inc()
}

// RecordSessionsExpired records n sessions transitioning to expired.
func RecordSessionsExpired(n int) {
	sessionsExpiredTotal.Add(float64(n))
}

// RecordBriefCreated records a new brief by property type.
func RecordBriefCreated(propertyType string) {
	briefsCreatedTotal.WithLabelValues(propertyType).Inc()
}

// RecordBriefSubmitted records a submitted brief by property type.
func RecordBriefSubmitted(propertyType string) {
	briefsSubmittedTotal.WithLabelValues(propertyType).Inc()
}

// RecordPIIDetection records one masked PII occurrence by type.
func RecordPIIDetection(piiType string) {
	piiDetectionsTotal.WithLabelValues(piiType).Inc()
}

// RecordBlockedMessage records a message rejected by the content filter.
func RecordBlockedMessage(reason string) {
	blockedMessagesTotal.WithLabelValues(reason).Inc()
}

// RecordError records a typed error by code.
func RecordError(code string) {
	errorsTotal.WithLabelValues(code).Inc()
}
