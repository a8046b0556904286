package keeper

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthStatus is reported by the probe endpoints.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the JSON body of /healthz and /readyz.
type HealthCheckResult struct {
	Status     HealthStatus      `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// HTTPAPI serves the ops endpoints: liveness, readiness and Prometheus metrics.
type HTTPAPI struct {
	discordReady func() bool
	logger       *zap.Logger
	now          func() time.Time
}

// NewHTTPAPI builds the ops API. discordReady reports whether the gateway
// session is open; nil means the bot is never ready.
func NewHTTPAPI(discordReady func() bool, logger *zap.Logger) *HTTPAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	if discordReady == nil {
		discordReady = func() bool { return false }
	}
	return &HTTPAPI{
		discordReady: discordReady,
		logger:       logger,
		now:          time.Now,
	}
}

func (a *HTTPAPI) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.handleLiveness)
	mux.HandleFunc("GET /readyz", a.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (a *HTTPAPI) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthCheckResult{
		Status:    HealthHealthy,
		Timestamp: a.now().UTC(),
	})
}

func (a *HTTPAPI) handleReadiness(w http.ResponseWriter, r *http.Request) {
	result := HealthCheckResult{
		Status:     HealthHealthy,
		Components: map[string]string{"discord": "ok"},
		Timestamp:  a.now().UTC(),
	}
	statusCode := http.StatusOK
	if !a.discordReady() {
		result.Status = HealthUnhealthy
		result.Components["discord"] = "disconnected"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
