package app

import (
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

const metricsNamespace = "sensordash"

// Metrics exports the rendered dashboard values and load bookkeeping.
type Metrics struct {
	values  *prometheus.GaugeVec
	alerts  prometheus.Gauge
	loads   *prometheus.CounterVec
	breaker *prometheus.GaugeVec
}

// NewMetrics registers the dashboard collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		values: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "metric_value",
			Help:      "Displayed aggregated value per metric and statistic.",
		}, []string{"metric", "stat"}),
		alerts: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "alert_count",
			Help:      "Displayed alert count; NaN when the display is blank.",
		}),
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "loads_total",
			Help:      "Dashboard loads by outcome.",
		}, []string{"outcome"}),
		breaker: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "breaker_state",
			Help:      "Upstream circuit breaker state (0 closed, 1 half-open, 2 open).",
		}, []string{"upstream"}),
	}
}

// Observe is a RenderFunc mirroring the display into gauges. Blank fields
// remove their series.
func (m *Metrics) Observe(_ string, st model.DisplayState) {
	for _, mt := range model.Metrics {
		d := st.Metric(mt)
		m.setValue(mt, "min", d.Min)
		m.setValue(mt, "avg", d.Avg)
		m.setValue(mt, "max", d.Max)
	}
	if n, err := strconv.ParseFloat(st.Alerts, 64); err == nil {
		m.alerts.Set(n)
	} else {
		m.alerts.Set(math.NaN())
	}
}

func (m *Metrics) setValue(mt model.MetricType, stat, s string) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m.values.DeleteLabelValues(string(mt), stat)
		return
	}
	m.values.WithLabelValues(string(mt), stat).Set(n)
}

// ObserveLoad counts a finished load by outcome.
func (m *Metrics) ObserveLoad(_ string, outcome LoadOutcome) {
	m.loads.WithLabelValues(string(outcome)).Inc()
}

// SetBreakerState exports st as 0 closed, 1 half-open, 2 open.
func (m *Metrics) SetBreakerState(name string, st gobreaker.State) {
	m.breaker.WithLabelValues(name).Set(float64(st))
}
