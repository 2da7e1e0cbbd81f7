// Package metrics expone contadores Prometheus del portal: entregas, cuadros escaneados y
// re-autorizaciones de guardias. Usa un registro propio para no mezclar con el global.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/beneficios-api/internal/application/guard"
	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/application/verification"
)

const namespace = "beneficios"

// Metrics agrupa los contadores y su registro.
type Metrics struct {
	registry       *prometheus.Registry
	deliveries     *prometheus.CounterVec
	frames         *prometheus.CounterVec
	authorizations *prometheus.CounterVec
}

var (
	_ qr.FrameRecorder              = (*Metrics)(nil)
	_ verification.DeliveryRecorder = (*Metrics)(nil)
	_ guard.AuthorizationRecorder   = (*Metrics)(nil)
)

// New crea los contadores y los registra junto a los collectors de proceso y runtime.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entregas_total",
			Help:      "Confirmaciones de entrega por resultado.",
		}, []string{"resultado"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escaneo_cuadros_total",
			Help:      "Cuadros de cámara analizados por resultado.",
		}, []string{"resultado"}),
		authorizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autorizaciones_total",
			Help:      "Re-autorizaciones de guardias por resultado.",
		}, []string{"resultado"}),
	}
	m.registry.MustRegister(
		m.deliveries,
		m.frames,
		m.authorizations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDelivery cuenta un Confirm.
func (m *Metrics) ObserveDelivery(result string) {
	m.deliveries.WithLabelValues(result).Inc()
}

// ObserveFrame cuenta un cuadro analizado.
func (m *Metrics) ObserveFrame(outcome qr.Outcome) {
	m.frames.WithLabelValues(outcome.String()).Inc()
}

// ObserveAuthorization cuenta una re-autorización ("ok" o el motivo de rechazo).
func (m *Metrics) ObserveAuthorization(result string) {
	m.authorizations.WithLabelValues(result).Inc()
}

// Registry devuelve el registro (tests y exportadores adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler devuelve el handler HTTP de exposición en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
