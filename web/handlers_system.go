package web

import (
	"net/http"
	"time"
)

// HealthResponse reports service and dependency health.
type HealthResponse struct {
	Status        string          `json:"status" example:"ok"`
	Database      string          `json:"database" example:"ok"`
	Services      map[string]bool `json:"services"`
	UptimeSeconds float64         `json:"uptime_seconds"`
}

// StatusResponse is the plain liveness body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse reports the service version.
type VersionResponse struct {
	Version string `json:"version" example:"dev"`
	Service string `json:"service" example:"andikar"`
}

// Version is overridden at build time via -ldflags.
var Version = "dev"

// Health reports liveness including the database and configured
// external services.
//
//	@Summary		Health check
//	@Description	Pings the database and reports which external services are configured.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse	"Database unreachable"
//	@Router			/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Services: map[string]bool{
			"humanizer": h.humanizerOK,
			"detector":  h.text.DetectorConfigured(),
		},
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
			h.logger.Error().Err(err).Msg("health check database ping failed")
		}
	}

	writeJSON(w, status, resp)
}

// Status is a plain liveness probe.
//
//	@Summary		Liveness check
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Version returns the service version.
//
//	@Summary		Get service version
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: Version,
		Service: "andikar",
	})
}
