package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RestRequestsTotal общее количество HTTP запросов
	RestRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"path"},
	)

	// RestResponseDuration гистограмма длительности HTTP запросов
	RestResponseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "Duration of HTTP requests in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		},
		[]string{"path", "method"},
	)

	// RestEndpointsResponsesTotal счётчик ответов по статусам
	RestEndpointsResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "Statuses for HTTP responses.",
		},
		[]string{"path", "method", "status"},
	)

	// RestRequestSize размер тела запроса
	RestRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes.",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"path", "method"},
	)
)

// IncRestRequestsTotal увеличивает счётчик HTTP запросов.
func IncRestRequestsTotal(path string) {
	RestRequestsTotal.WithLabelValues(path).Inc()
}

// IncRestResponsesDuration записывает длительность HTTP запроса.
func IncRestResponsesDuration(path, method string, timeServe time.Duration) {
	RestResponseDuration.WithLabelValues(path, method).Observe(float64(timeServe.Milliseconds()))
}

// IncRestResponsesStatusesTotal увеличивает счётчик ответов по статусу.
func IncRestResponsesStatusesTotal(path, method string, status int) {
	RestEndpointsResponsesTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// ObserveRestRequestSize записывает размер тела запроса. Неизвестный размер пропускается.
func ObserveRestRequestSize(path, method string, size int64) {
	if size <= 0 {
		return
	}
	RestRequestSize.WithLabelValues(path, method).Observe(float64(size))
}
