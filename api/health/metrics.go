package health

import "github.com/prometheus/client_golang/prometheus"

// HTTP collectors are labelled by chi route pattern, never by raw path.
var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poolshop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poolshop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HttpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poolshop",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served",
		},
	)
)
