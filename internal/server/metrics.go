package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelscan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelscan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Decode metrics
	decodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelscan_decode_requests_total",
			Help: "Total number of decode requests",
		},
		[]string{"mode", "status"}, // mode: image, ws; status: ok, miss, error
	)

	decodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelscan_decode_duration_seconds",
			Help:    "Decode processing duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)

	readingsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelscan_readings_committed_total",
			Help: "Total number of committed readings",
		},
		[]string{"source"}, // engine tag: zxing, zxing-hard, ocr
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "labelscan_websocket_connections",
			Help: "Number of active WebSocket scan sessions",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelscan_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // received, sent
	)
)
