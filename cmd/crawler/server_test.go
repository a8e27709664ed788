package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"

	"relentless-househunter/internal/metrics"
	"relentless-househunter/internal/models"
	"relentless-househunter/mocks"
)

type fixedStatus models.CrawlStatus

func (f fixedStatus) Status() models.CrawlStatus { return models.CrawlStatus(f) }

func newTestServer(t *testing.T) (*server, *mocks.MockStatusStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	statusStore := mocks.NewMockStatusStore(ctrl)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Phase("RUNNING", "SEEDING", "RUNNING", "DRAINING", "TERMINATED")

	live := fixedStatus{RunID: "run-live", Phase: "RUNNING", PendingListings: 12}
	return newServer(live, statusStore, reg), statusStore
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var payload models.CrawlStatus
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.RunID != "run-live" || payload.PendingListings != 12 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleStatusMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestHandleRunStatus(t *testing.T) {
	srv, statusStore := newTestServer(t)
	statusStore.EXPECT().GetStatus(gomock.Any(), "run-7").
		Return(models.CrawlStatus{RunID: "run-7", Phase: "TERMINATED", RecordsFlushed: 40}, true, nil)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/run-7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var payload models.CrawlStatus
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Phase != "TERMINATED" || payload.RecordsFlushed != 40 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleRunStatusNotFound(t *testing.T) {
	srv, statusStore := newTestServer(t)
	statusStore.EXPECT().GetStatus(gomock.Any(), "missing").Return(models.CrawlStatus{}, false, nil)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleRunStatusStoreError(t *testing.T) {
	srv, statusStore := newTestServer(t)
	statusStore.EXPECT().GetStatus(gomock.Any(), "run-1").Return(models.CrawlStatus{}, false, errors.New("redis down"))

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/run-1", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rec.Code)
	}
}

func TestHandleRunStatusMissingID(t *testing.T) {
	srv, statusStore := newTestServer(t)
	statusStore.EXPECT().GetStatus(gomock.Any(), gomock.Any()).Times(0)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if !strings.Contains(string(body), `phase="RUNNING"`) {
		t.Fatalf("expected phase gauge in metrics output, got:\n%s", body)
	}
}
