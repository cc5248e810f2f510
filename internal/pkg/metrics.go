package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics 服务级别的 Prometheus 指标
type Metrics struct {
	Registry     *prometheus.Registry
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	FeedQueries  *prometheus.CounterVec
	EventsSent   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buzz_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buzz_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		FeedQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buzz_feed_queries_total",
			Help: "Feed queries by resolved filter.",
		}, []string{"filter"}),
		EventsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buzz_outbox_events_total",
			Help: "Outbox events relayed by result.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(
		m.HTTPRequests,
		m.HTTPLatency,
		m.FeedQueries,
		m.EventsSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
