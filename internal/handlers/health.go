package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	service string
	db      Pinger
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler. db may be nil when the
// service runs on in-memory storage.
func NewHealthHandler(service string, db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		db:      db,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Database  string    `json:"database,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response.Database = "up"
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Error("database ping failed", "error", err)
			response.Status = "unhealthy"
			response.Database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	WriteJSON(w, status, response, h.logger)
}
