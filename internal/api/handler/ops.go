// Package handler provides HTTP handlers for the Verdia API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/verdialabs/verdia/internal/api/models"
	"github.com/verdialabs/verdia/internal/api/response"
)

// ReadyCheck reports whether a dependency is ready. Returning an error
// marks the subsystem as failed.
type ReadyCheck func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadyCheck
}

// NewOpsHandler creates a new OpsHandler. Checks are keyed by
// subsystem name (e.g. "database").
func NewOpsHandler(version, buildTime string, checks map[string]ReadyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	readiness := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	status := http.StatusOK
	for name, check := range h.checks {
		sub := models.SubsystemStatus{Name: name, Status: models.HealthStatusOK}
		if err := check(ctx); err != nil {
			detail := err.Error()
			sub.Status = models.HealthStatusFail
			sub.Detail = &detail
			readiness.Status = models.HealthStatusFail
			status = http.StatusServiceUnavailable
		}
		readiness.Subsystems = append(readiness.Subsystems, sub)
	}

	response.JSON(w, r, status, readiness)
}
