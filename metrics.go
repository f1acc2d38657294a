package senfi

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by a Client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokenRefreshes  *prometheus.CounterVec
}

// NewMetrics creates the client collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default registry.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	client := senfi.New(senfi.WithMetrics(senfi.NewMetrics(reg)))
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "senfi",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Dispatched API calls by method and errcode (empty errcode on success).",
		}, []string{"method", "errcode"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "senfi",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of dispatched API calls including authentication.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "senfi",
			Subsystem: "client",
			Name:      "token_refresh_total",
			Help:      "Token exchanges by result (ok or errcode).",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.requestDuration, m.tokenRefreshes)
	}
	return m
}

// WithMetrics enables Prometheus instrumentation of dispatched calls and
// token refreshes.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func (m *Metrics) observeRequest(method string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	method = strings.ToUpper(method)
	m.requests.WithLabelValues(method, errcodeLabel(err)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (m *Metrics) observeTokenRefresh(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = errcodeLabel(err)
	}
	m.tokenRefreshes.WithLabelValues(result).Inc()
}

// errcodeLabel bounds the errcode label. Codes outside the client kinds
// come from remote envelopes and are reported as "remote".
func errcodeLabel(err error) string {
	k := KindOf(err)
	if k == "" || IsStandardKind(k) {
		return string(k)
	}
	return "remote"
}
