package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/scanner"
)

type HealthHandler struct {
	Scanner *scanner.Scanner
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.Scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "scanner_missing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
