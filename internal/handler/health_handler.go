package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HealthChecker reports the month catalog state; a non-nil error means the
// built-in months are being served
type HealthChecker interface {
	Health() error
}

// PingFunc checks the backing store
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	service string
	catalog HealthChecker
	ping    PingFunc
}

// RegisterHealthHandler mounts GET /health. ping may be nil for the memory store.
func RegisterHealthHandler(r *mux.Router, serviceName string, catalog HealthChecker, ping PingFunc) {
	h := &HealthHandler{service: serviceName, catalog: catalog, ping: ping}
	r.HandleFunc("/health", h.HandleHealthCheck).Methods(http.MethodGet)
}

// HandleHealthCheck handles health check endpoint
func (h *HealthHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"service":   h.service,
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}
	status := http.StatusOK

	if err := h.catalog.Health(); err != nil {
		resp["status"] = "degraded"
		resp["catalog"] = err.Error()
	}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			resp["status"] = "unhealthy"
			resp["store"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
