package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics llamadas al servicio de aprovisionamiento por verbo y resultado.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registra las métricas en reg (nil usa el registry por defecto).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioning_requests_total",
			Help: "Total de llamadas al servicio de aprovisionamiento",
		}, []string{"verb", "outcome"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provisioning_request_duration_seconds",
			Help:    "Duración de las llamadas al servicio de aprovisionamiento",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"verb"}),
	}
}

// Observe registra una llamada; outcome es "ok" o "error".
func (m *Metrics) Observe(verb string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Requests.WithLabelValues(verb, outcome).Inc()
	m.RequestDuration.WithLabelValues(verb).Observe(time.Since(start).Seconds())
}
