// ABOUTME: JSON HTTP API over the CRM service
// ABOUTME: Read-only views plus backup export and import, with Prometheus metrics
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harperreed/amil/crm"
)

const DefaultAddr = ":8080"

type Server struct {
	svc      *crm.Service
	log      *log.Logger
	router   *mux.Router
	registry *prometheus.Registry
	metrics  *metrics
}

func NewServer(svc *crm.Service, logger *log.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		svc:      svc,
		log:      logger,
		router:   mux.NewRouter(),
		registry: registry,
		metrics:  newMetrics(registry, svc),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.recoverPanics, s.observe)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/customers", s.handleCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", s.handleCustomer).Methods(http.MethodGet)
	api.HandleFunc("/interactions", s.handleInteractions).Methods(http.MethodGet)
	api.HandleFunc("/deals", s.handleDeals).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}", s.handleDeal).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.handleTasks).Methods(http.MethodGet)
	api.HandleFunc("/pipeline", s.handlePipeline).Methods(http.MethodGet)
	api.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	api.HandleFunc("/notifications", s.handleNotifications).Methods(http.MethodGet)
	api.HandleFunc("/backup", s.handleExportBackup).Methods(http.MethodGet)
	api.HandleFunc("/backup", s.handleImportBackup).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Info("starting web server", "addr", addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down web server")
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
