// Package metrics exposes the prometheus collectors of the notification pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Dispatches        *prometheus.CounterVec
	ChannelDeliveries *prometheus.CounterVec
	Events            *prometheus.CounterVec
	QueueRetries      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_dispatches_total",
			Help: "Notification dispatches by outcome.",
		}, []string{"outcome"}),

		ChannelDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_channel_deliveries_total",
			Help: "Per-channel delivery attempts by status.",
		}, []string{"channel", "status"}),

		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_events_total",
			Help: "Notification events observed by kind.",
		}, []string{"kind"}),

		QueueRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_queue_retries_total",
			Help: "Dispatch requests scheduled for redelivery.",
		}, []string{"queue"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"path", "method", "status"}),

		gatherer: reg,
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records RED metrics labelled with the mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		status := strconv.Itoa(ww.status)
		m.HTTPDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
		m.HTTPRequests.WithLabelValues(path, r.Method, status).Inc()
	})
}
