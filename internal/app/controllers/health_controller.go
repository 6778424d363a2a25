package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecoshare/backend/internal/app/models/dto"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// HealthChecker pings the backing store
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// HealthController reports liveness
type HealthController struct {
	store  HealthChecker
	driver string
}

// NewHealthController creates a new HealthController
func NewHealthController(store HealthChecker, driver string) *HealthController {
	return &HealthController{store: store, driver: driver}
}

// Health reports whether the store answers
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Store: h.driver, Version: Version}
	if err := h.store.Healthy(pingCtx); err != nil {
		resp.Status = "degraded"
		ctx.JSON(http.StatusServiceUnavailable, dto.APIResponse{Success: false, Data: resp, Timestamp: time.Now().UTC()})
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
