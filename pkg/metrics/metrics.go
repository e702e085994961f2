package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec

	// Исходящие события
	EventsPublishedTotal *prometheus.CounterVec
}

// New регистрирует и возвращает метрики сервиса
// service добавляется лейблом ко всем метрикам, чтобы различать инстансы
// на общем Prometheus.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		EventsPublishedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "events_published_total",
			Help:        "Total number of outbound notification events",
			ConstLabels: constLabels,
		}, []string{"event", "status"}),
	}

	return m
}

// ObserveEvent учитывает одну попытку публикации исходящего события
func (m *Metrics) ObserveEvent(event string, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(event, status).Inc()
}
