package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"activitysignup/internal/delivery/http/helpers"
)

const healthCheckTimeout = 2 * time.Second

// HealthController reports whether the backing store is reachable.
type HealthController struct {
	Logger *slog.Logger
	Ping   func(ctx context.Context) error
}

// NewHealthController returns a HealthController. A nil ping means there is
// nothing to check and the service is always healthy.
func NewHealthController(logger *slog.Logger, ping func(ctx context.Context) error) *HealthController {
	return &HealthController{Logger: logger, Ping: ping}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} controllers.HealthResponse
// @Failure 503 {object} helpers.ErrorResponse "code: service_unavailable"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if c.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			c.Logger.WarnContext(r.Context(), "health check failed", "err", err)
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "store unavailable")
			return
		}
	}
	helpers.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
