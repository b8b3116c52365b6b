package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
)

var (
	// APIRequestsTotal counts calls to the remote API by outcome
	// (ok, response_error, network_error, decode_error, body_too_large).
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projecttasks_api_requests_total",
			Help: "Total number of remote API calls",
		},
		[]string{"method", "route", "outcome"},
	)

	// APILatency tracks remote API call latency.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projecttasks_api_latency_seconds",
			Help:    "Remote API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ClassifiedErrorsTotal counts failures shown to users, by kind, status
	// and how they were presented (inline, page, login).
	ClassifiedErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projecttasks_classified_errors_total",
			Help: "Total number of classified errors presented to users",
		},
		[]string{"kind", "status", "presentation"},
	)

	// SessionsActive tracks sessions created minus live sessions destroyed
	// by this process. Sessions that expire unattended are not subtracted,
	// so the value is an upper bound.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "projecttasks_sessions_active",
			Help: "Sessions created minus live sessions destroyed; expiries are not subtracted",
		},
	)
)

// ObserveClassified records one presented error.
func ObserveClassified(c *errs.Classified, presentation string) {
	if c == nil {
		return
	}
	status := "none"
	if c.Status != 0 {
		status = strconv.Itoa(c.Status)
	}
	ClassifiedErrorsTotal.WithLabelValues(c.Kind.String(), status, presentation).Inc()
}
