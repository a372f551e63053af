package onboarding

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics pasos completados y despliegues.
type Metrics struct {
	Steps           *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
	TenantsDeployed prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// NewMetrics registra las métricas en reg (nil usa el registry por defecto).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_steps_total",
			Help: "Pasos del asistente ejecutados por resultado",
		}, []string{"step", "outcome"}),
		StepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboarding_step_duration_seconds",
			Help:    "Duración de cada paso del asistente",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"step"}),
		TenantsDeployed: f.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_tenants_deployed_total",
			Help: "Tenants desplegados",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "onboarding_active_sessions",
			Help: "Sesiones del asistente abiertas",
		}),
	}
}

func (m *Metrics) observeStep(step int, start time.Time, err *StepError) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(err.Kind)
	}
	label := strconv.Itoa(step)
	m.Steps.WithLabelValues(label, outcome).Inc()
	m.StepDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
}

func (m *Metrics) deployed() {
	if m != nil {
		m.TenantsDeployed.Inc()
	}
}

func (m *Metrics) sessions(n int) {
	if m != nil {
		m.ActiveSessions.Set(float64(n))
	}
}
