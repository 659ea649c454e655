// ABOUTME: Prometheus collectors for HTTP traffic and CRM record counts
// ABOUTME: Each server owns a registry so tests can build servers freely
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer, svc *crm.Service) *metrics {
	factory := promauto.With(reg)
	m := &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amil_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amil_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	counts := map[string]func(crm.Snapshot) int{
		"customers":    func(s crm.Snapshot) int { return len(s.Customers) },
		"interactions": func(s crm.Snapshot) int { return len(s.Interactions) },
		"deals":        func(s crm.Snapshot) int { return len(s.Deals) },
		"tasks":        func(s crm.Snapshot) int { return len(s.Tasks) },
	}
	for kind, count := range counts {
		count := count
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "amil_records",
			Help:        "Number of stored records by kind",
			ConstLabels: prometheus.Labels{"kind": kind},
		}, func() float64 { return float64(count(svc.Snapshot())) })
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "amil_pipeline_weighted_value",
		Help: "Probability-weighted value of ongoing deals",
	}, func() float64 { return crm.Pipeline(svc.Deals(crm.DealFilter{})).WeightedValue })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "amil_tasks_overdue",
		Help: "Incomplete tasks past their due date",
	}, func() float64 {
		return float64(len(crm.Overdue(svc.Tasks(crm.TaskFilter{}), svc.Now())))
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "amil_tasks_open",
		Help: "Tasks that are not completed",
	}, func() float64 {
		counts := crm.StatusCounts(svc.Tasks(crm.TaskFilter{}))
		return float64(counts[models.TaskPending] + counts[models.TaskInProgress])
	})
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe records each request under its route template so ids do not
// explode label cardinality.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		status := strconv.Itoa(rec.status)
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(r.Method, path, status).Inc()
		s.metrics.duration.WithLabelValues(r.Method, path, status).Observe(elapsed.Seconds())
		s.log.Debug("http request", "method", r.Method, "path", path, "status", rec.status, "elapsed", elapsed)
	})
}
