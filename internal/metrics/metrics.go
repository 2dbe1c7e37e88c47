// Package metrics exposes Prometheus collectors for calculations and HTTP
// traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/plate-calculator/internal/calculator"
)

const namespace = "plate_calculator"

// Metrics groups the collectors the service records into.
type Metrics struct {
	gatherer prometheus.Gatherer

	calculations        *prometheus.CounterVec
	reverseCalculations *prometheus.CounterVec
	calculationDuration prometheus.Histogram
	httpRequests        *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Forward plate calculations by topology and exact-match outcome.",
		}, []string{"topology", "exact"}),
		reverseCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reverse_calculations_total",
			Help:      "Total-weight calculations from a plate loadout.",
		}, []string{"topology"}),
		calculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent allocating plates.",
			Buckets:   []float64{.000001, .00001, .0001, .001, .01},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.calculations, m.reverseCalculations, m.calculationDuration, m.httpRequests)
	return m
}

// ObserveCalculation records a forward calculation.
func (m *Metrics) ObserveCalculation(result calculator.CalculationResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(topology(result.IsLoadingPin), strconv.FormatBool(result.IsExactMatch)).Inc()
	m.calculationDuration.Observe(elapsed.Seconds())
}

// ObserveReverseCalculation records a reverse calculation.
func (m *Metrics) ObserveReverseCalculation(isLoadingPin bool) {
	if m == nil {
		return
	}
	m.reverseCalculations.WithLabelValues(topology(isLoadingPin)).Inc()
}

// ObserveRequest records a completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func topology(isLoadingPin bool) string {
	if isLoadingPin {
		return "loading_pin"
	}
	return "barbell"
}
