package daemon

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/klidoop/fire-calculation/internal/pipeline"
)

const metricsNamespace = "firecalc"

// metrics holds the collectors served at /metrics. Each Service owns its
// registry so tests can build several services side by side.
type metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	projections         *prometheus.CounterVec
	infeasible          *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &metrics{
		registry: reg,
		httpRequests: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and method",
			},
			[]string{"route", "method", "status_code"},
		),
		httpRequestDuration: auto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_milliseconds",
				Help:      "HTTP request duration in milliseconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
			},
			[]string{"route", "method"},
		),
		projections: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "projections_total",
				Help:      "Scenario projections computed, by mode",
			},
			[]string{"mode"},
		),
		infeasible: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "projections_infeasible_total",
				Help:      "Scenario projections with no retirement point, by mode",
			},
			[]string{"mode"},
		),
	}
}

func (m *metrics) recordComparison(c pipeline.Comparison) {
	mode := string(c.Mode)
	for _, r := range c.Results {
		m.projections.WithLabelValues(mode).Inc()
		if !r.Feasible {
			m.infeasible.WithLabelValues(mode).Inc()
		}
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument is router middleware recording request metrics and a log line
// per request. Routes are labelled by their template, never the raw path.
func (s *Service) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)

		s.metrics.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		s.metrics.httpRequestDuration.WithLabelValues(route, r.Method).Observe(float64(elapsed.Microseconds()) / 1000)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   rw.statusCode,
			"duration": elapsed,
		}).Debug("request served")
	})
}
