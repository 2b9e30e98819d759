package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/api/middleware"
	"github.com/abdouthematrix/westcairostars/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler. db may be nil.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	connected := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		connected = h.db.Ping(ctx) == nil
		cancel()
	}

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	data := healthData{
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
	}

	response.Success(w, http.StatusOK, data, requestID)
}
