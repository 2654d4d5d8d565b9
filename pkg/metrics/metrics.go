package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Métricas de autenticación, caché de permisos, cascadas y HTTP.
var (
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizfree_auth_events_total",
			Help: "Eventos de sesión por operación y resultado.",
		},
		[]string{"operation", "outcome"},
	)

	PermissionCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizfree_permission_cache_lookups_total",
			Help: "Consultas a la caché de permisos (hit/miss).",
		},
		[]string{"result"},
	)

	CascadeRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizfree_cascade_soft_deleted_rows_total",
			Help: "Filas marcadas como borradas por cascadas, por entidad.",
		},
		[]string{"entity"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizfree_http_requests_total",
			Help: "Total de peticiones HTTP.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizfree_http_request_duration_seconds",
			Help:    "Latencia de peticiones HTTP en segundos.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

// Register registra los colectores en el registro por defecto (una sola vez).
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AuthEvents, PermissionCache, CascadeRows, HTTPRequests, HTTPDuration)
	})
}

// Handler expone las métricas en formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
