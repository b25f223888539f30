package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы Record*/Observe* безопасны для nil-получателя (метрики выключены).
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge
	DBTransactionsTotal *prometheus.CounterVec

	SlotsGeneratedTotal     *prometheus.CounterVec
	SlotValidationsTotal    *prometheus.CounterVec
	AppointmentsBookedTotal *prometheus.CounterVec
	ScheduleSavesTotal      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном регистре (для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		DBTransactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transactions_total",
			Help:        "Total number of transactions by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		SlotsGeneratedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduling_slots_generated_total",
			Help:        "Generated slots by availability reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		SlotValidationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduling_slot_validations_total",
			Help:        "Slot validations by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		AppointmentsBookedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduling_appointments_booked_total",
			Help:        "Booking attempts by source and outcome",
			ConstLabels: constLabels,
		}, []string{"source", "outcome"}),

		ScheduleSavesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduling_schedule_saves_total",
			Help:        "Weekly schedule saves by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTransaction фиксирует завершение транзакции (commit, rollback, retry)
func (m *Metrics) RecordTransaction(outcome string) {
	if m == nil {
		return
	}
	m.DBTransactionsTotal.WithLabelValues(outcome).Inc()
}

// RecordSlots фиксирует количество сгенерированных слотов с данной причиной
func (m *Metrics) RecordSlots(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.SlotsGeneratedTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordSlotValidation фиксирует результат проверки слота
func (m *Metrics) RecordSlotValidation(result string) {
	if m == nil {
		return
	}
	m.SlotValidationsTotal.WithLabelValues(result).Inc()
}

// RecordBooking фиксирует попытку бронирования
func (m *Metrics) RecordBooking(source, outcome string) {
	if m == nil {
		return
	}
	m.AppointmentsBookedTotal.WithLabelValues(source, outcome).Inc()
}

// RecordScheduleSave фиксирует сохранение недельного расписания
func (m *Metrics) RecordScheduleSave(outcome string) {
	if m == nil {
		return
	}
	m.ScheduleSavesTotal.WithLabelValues(outcome).Inc()
}
