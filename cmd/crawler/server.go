package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"relentless-househunter/internal/metrics"
	"relentless-househunter/internal/models"
	"relentless-househunter/internal/store"
)

// liveStatus is the running coordinator.
type liveStatus interface {
	Status() models.CrawlStatus
}

type server struct {
	live     liveStatus
	store    store.StatusStore
	gatherer prometheus.Gatherer
}

func newServer(live liveStatus, store store.StatusStore, gatherer prometheus.Gatherer) *server {
	return &server{
		live:     live,
		store:    store,
		gatherer: gatherer,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/status/", s.handleRunStatus)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler(s.gatherer))
	return mux
}

// handleStatus returns the progress of the run in this process.
//
// Method: GET
// Path:   /status
// Example:
//
//	curl "http://localhost:9090/status"
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.live.Status(), http.StatusOK)
}

// handleRunStatus returns the last persisted status of any run.
//
// Method: GET
// Path:   /status/{runID}
// Example:
//
//	curl "http://localhost:9090/status/3f2c9a9e-4b8e-4c53-9d0a-1f1d2f3e4a5b"
func (s *server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/status/"), "/")
	if runID == "" {
		http.Error(w, "missing run id", http.StatusBadRequest)
		return
	}

	status, ok, err := s.store.GetStatus(r.Context(), runID)
	if err != nil {
		http.Error(w, "failed to load status", http.StatusBadGateway)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, status, http.StatusOK)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
