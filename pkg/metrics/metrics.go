package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	factory promauto.Factory
	labels  prometheus.Labels

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal      *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec
	DBTransactionsTotal *prometheus.CounterVec

	// Бизнес-метрики
	BookingsTotal        *prometheus.CounterVec
	StatusChangesTotal   *prometheus.CounterVec
	SlotsQueriesTotal    *prometheus.CounterVec
	AvailableSlotsServed prometheus.Histogram
}

// New создает метрики и регистрирует их в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в переданном registry (удобно для тестов)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		factory: factory,
		labels:  labels,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBTransactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transactions_total",
			Help:        "Total number of database transactions by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_total",
			Help:        "Booking attempts by result kind",
			ConstLabels: labels,
		}, []string{"result"}),
		StatusChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_status_changes_total",
			Help:        "Appointment status change attempts by target status and result",
			ConstLabels: labels,
		}, []string{"target", "result"}),
		SlotsQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "available_slots_queries_total",
			Help:        "Available slots queries by empty-result reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		AvailableSlotsServed: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "available_slots_served",
			Help:        "Number of slots returned per query",
			ConstLabels: labels,
			Buckets:     []float64{0, 1, 5, 10, 20, 30},
		}),
	}
}

// ObserveBooking учитывает попытку бронирования с результатом (ok или kind ошибки)
func (m *Metrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(result).Inc()
}

// ObserveStatusChange учитывает попытку смены статуса записи
func (m *Metrics) ObserveStatusChange(target, result string) {
	if m == nil {
		return
	}
	m.StatusChangesTotal.WithLabelValues(target, result).Inc()
}

// ObserveSlotsQuery учитывает запрос слотов и количество выданных слотов
func (m *Metrics) ObserveSlotsQuery(reason string, count int) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.SlotsQueriesTotal.WithLabelValues(reason).Inc()
	m.AvailableSlotsServed.Observe(float64(count))
}

// RegisterDBStats регистрирует gauge-метрики пула соединений
// Значения читаются из stats в момент scrape, фоновый сбор не нужен
func (m *Metrics) RegisterDBStats(stats func() sql.DBStats) {
	if m == nil {
		return
	}

	gauges := []struct {
		name string
		help string
		get  func(s sql.DBStats) float64
	}{
		{"db_open_connections", "Number of established connections", func(s sql.DBStats) float64 { return float64(s.OpenConnections) }},
		{"db_in_use_connections", "Number of connections currently in use", func(s sql.DBStats) float64 { return float64(s.InUse) }},
		{"db_idle_connections", "Number of idle connections", func(s sql.DBStats) float64 { return float64(s.Idle) }},
		{"db_wait_count", "Total number of connections waited for", func(s sql.DBStats) float64 { return float64(s.WaitCount) }},
	}

	for _, g := range gauges {
		get := g.get
		m.factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        g.name,
			Help:        g.help,
			ConstLabels: m.labels,
		}, func() float64 { return get(stats()) })
	}
}
