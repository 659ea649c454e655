// ABOUTME: Route handlers for the JSON API
// ABOUTME: Query parameters accept the same bilingual literals as the CLI
package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/viz"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"customers":    len(snap.Customers),
		"interactions": len(snap.Interactions),
		"deals":        len(snap.Deals),
		"tasks":        len(snap.Tasks),
	})
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := crm.CustomerFilter{Query: q.Get("q"), Tag: q.Get("tag")}
	if v := q.Get("type"); v != "" {
		t, err := models.ParseCustomerType(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Type = t
	}
	writeJSON(w, http.StatusOK, s.svc.Customers(f))
}

func (s *Server) handleCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, ok := s.svc.Customer(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("customer %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customer":     c,
		"interactions": s.svc.Interactions(crm.InteractionFilter{CustomerID: id}),
		"deals":        s.svc.Deals(crm.DealFilter{CustomerID: id}),
		"tasks":        s.svc.Tasks(crm.TaskFilter{CustomerID: id}),
	})
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := crm.InteractionFilter{CustomerID: q.Get("customer")}
	var err error
	if v := q.Get("type"); v != "" {
		if f.Type, err = models.ParseInteractionType(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := q.Get("outcome"); v != "" {
		if f.Outcome, err = models.ParseOutcome(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if f.Range, err = dayRange(q, time.Time{}, time.Time{}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Interactions(f))
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := crm.DealFilter{Query: q.Get("q"), CustomerID: q.Get("customer")}
	if v := q.Get("status"); v != "" {
		st, err := models.ParseDealStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Status = st
	}
	writeJSON(w, http.StatusOK, s.svc.Deals(f))
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, ok := s.svc.Deal(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("deal %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := crm.TaskFilter{CustomerID: q.Get("customer")}
	var err error
	if v := q.Get("status"); v != "" {
		if f.Status, err = models.ParseTaskStatus(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := q.Get("priority"); v != "" {
		if f.Priority, err = models.ParsePriority(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, s.svc.Tasks(f))
}

type pipelineBody struct {
	crm.PipelineStats
	CloseRate  float64           `json:"closeRate"`
	Rejections []crm.ReasonCount `json:"rejections"`
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	p := crm.Pipeline(snap.Deals)
	writeJSON(w, http.StatusOK, pipelineBody{
		PipelineStats: p,
		CloseRate:     p.CloseRate(),
		Rejections:    crm.RejectionStats(snap.Deals, snap.RejectionReasons),
	})
}

// handleReport defaults to the month ending today. format=text returns the
// rendered report in the configured language.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	now := s.svc.Now()
	rng, err := dayRange(r.URL.Query(), now.AddDate(0, -1, 0), now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rng.To.Before(rng.From) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}

	snap := s.svc.Snapshot()
	report := viz.GenerateReport(snap, rng.From, rng.To)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(viz.RenderReport(report, i18n.LocaleFor(snap.Settings))))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleNotifications returns the current due-soon set. window overrides
// the one-hour default, e.g. ?window=30m.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	window := crm.DefaultNotifyWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid window %q", v))
			return
		}
		window = d
	}
	tasks := crm.DueSoon(s.svc.Tasks(crm.TaskFilter{}), s.svc.Now(), window)
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	backup := s.svc.Export()
	var buf bytes.Buffer
	if err := crm.WriteBackup(&buf, backup); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", crm.BackupFileName(backup.ExportDate)))
	_, _ = w.Write(buf.Bytes())
}

type importBody struct {
	Replaced []string `json:"replaced"`
	Warning  string   `json:"warning,omitempty"`
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	replaced, err := s.svc.Import(http.MaxBytesReader(w, r.Body, 64<<20))
	switch {
	case err == nil:
	case crm.IsWarning(err):
		s.log.Warn("backup imported with persistence warnings", "err", err)
		writeJSON(w, http.StatusOK, importBody{Replaced: replaced, Warning: err.Error()})
		return
	case errors.Is(err, crm.ErrMalformedBackup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if replaced == nil {
		replaced = []string{}
	}
	writeJSON(w, http.StatusOK, importBody{Replaced: replaced})
}

// dayRange reads from/to query dates, falling back to the given defaults.
func dayRange(q url.Values, from, to time.Time) (crm.DayRange, error) {
	rng := crm.DayRange{From: from, To: to}
	if v := q.Get("from"); v != "" {
		t, err := models.ParseTime(v)
		if err != nil {
			return rng, fmt.Errorf("invalid from: %w", err)
		}
		rng.From = crm.StartOfDay(t)
	}
	if v := q.Get("to"); v != "" {
		t, err := models.ParseTime(v)
		if err != nil {
			return rng, fmt.Errorf("invalid to: %w", err)
		}
		rng.To = t
	}
	return rng, nil
}
