package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор Prometheus метрик сервиса
// Все методы безопасны для nil получателя - сервис работает и с выключенными метриками
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration  *prometheus.HistogramVec
	dbOpenConns      *prometheus.GaugeVec
	dbInUseConns     *prometheus.GaugeVec
	dbIdleConns      *prometheus.GaugeVec
	dbWaitCountTotal *prometheus.GaugeVec

	matchesTotal          *prometheus.CounterVec
	quotesTotal           *prometheus.CounterVec
	bookingsCreatedTotal  *prometheus.CounterVec
	membershipSavingTotal prometheus.Counter
}

// New создает и регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation", "status"}),
		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		dbIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		dbWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),
		matchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "provider_matches_total",
			Help:        "Provider matching outcomes",
			ConstLabels: constLabels,
		}, []string{"result"}),
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "price_quotes_total",
			Help:        "Computed price quotes",
			ConstLabels: constLabels,
		}, []string{"membership"}),
		bookingsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings persisted by instant booking",
			ConstLabels: constLabels,
		}, []string{"service_id"}),
		membershipSavingTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "membership_savings_total",
			Help:        "Sum of membership discounts granted",
			ConstLabels: constLabels,
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCountTotal,
		m.matchesTotal,
		m.quotesTotal,
		m.bookingsCreatedTotal,
		m.membershipSavingTotal,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(serviceName, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(serviceName, operation, status).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(serviceName string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(serviceName).Set(float64(stats.OpenConnections))
	m.dbInUseConns.WithLabelValues(serviceName).Set(float64(stats.InUse))
	m.dbIdleConns.WithLabelValues(serviceName).Set(float64(stats.Idle))
	m.dbWaitCountTotal.WithLabelValues(serviceName).Set(float64(stats.WaitCount))
}

// ObserveMatch фиксирует результат подбора исполнителя: matched, no_candidates, no_slot
func (m *Metrics) ObserveMatch(result string) {
	if m == nil {
		return
	}
	m.matchesTotal.WithLabelValues(result).Inc()
}

// ObserveQuote фиксирует рассчитанную стоимость
func (m *Metrics) ObserveQuote(withMembership bool) {
	if m == nil {
		return
	}
	m.quotesTotal.WithLabelValues(strconv.FormatBool(withMembership)).Inc()
}

// ObserveBookingCreated фиксирует созданное бронирование
func (m *Metrics) ObserveBookingCreated(serviceID int64) {
	if m == nil {
		return
	}
	m.bookingsCreatedTotal.WithLabelValues(strconv.FormatInt(serviceID, 10)).Inc()
}

// ObserveMembershipSaving добавляет сумму скидки по членской карте
func (m *Metrics) ObserveMembershipSaving(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.membershipSavingTotal.Add(amount)
}
