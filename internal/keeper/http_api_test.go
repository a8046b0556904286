package keeper

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthCheckResult {
	t.Helper()
	var result HealthCheckResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	return result
}

func TestHealthzAlwaysHealthy(t *testing.T) {
	api := NewHTTPAPI(nil, nil)
	rec := doRequest(t, api.Handler(), http.MethodGet, "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}
	if result := decodeHealth(t, rec); result.Status != HealthHealthy {
		t.Errorf("expected healthy, got %q", result.Status)
	}
}

func TestReadyzFollowsDiscordSession(t *testing.T) {
	ready := false
	api := NewHTTPAPI(func() bool { return ready }, nil)
	h := api.Handler()

	rec := doRequest(t, h, http.MethodGet, "/readyz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before connect, got %d", rec.Code)
	}
	result := decodeHealth(t, rec)
	if result.Status != HealthUnhealthy || result.Components["discord"] != "disconnected" {
		t.Errorf("unexpected result %+v", result)
	}

	ready = true
	rec = doRequest(t, h, http.MethodGet, "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 once connected, got %d", rec.Code)
	}
	if result := decodeHealth(t, rec); result.Components["discord"] != "ok" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	InitMetrics()
	GetMetrics().RecordPassiveReply()

	rec := doRequest(t, NewHTTPAPI(nil, nil).Handler(), http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mischief_passive_replies_total") {
		t.Error("expected mischief metrics in exposition")
	}
}

func TestHTTPAPIRejectsOtherMethods(t *testing.T) {
	rec := doRequest(t, NewHTTPAPI(nil, nil).Handler(), http.MethodPost, "/healthz")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
