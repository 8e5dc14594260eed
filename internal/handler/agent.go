package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/activity"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/scanner"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/service"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/verify"
)

type AgentHandler struct {
	Scanner  *scanner.Scanner
	Scans    *service.ScanService
	Verifier *verify.Verifier
	Activity *activity.Log
	Config   config.Config
	Callback scanner.Callback

	startedAt time.Time
}

type scanRequest struct {
	MinProbability  *float64 `json:"min_probability"`
	MaxProbability  *float64 `json:"max_probability"`
	TimeWindowHours *float64 `json:"time_window_hours"`
}

func (h *AgentHandler) Register(r *gin.Engine) {
	h.startedAt = time.Now().UTC()
	r.GET("/status", h.status)
	group := r.Group("/api/v1")
	group.POST("/scan", h.scan)
	group.GET("/markets", h.markets)
	group.GET("/markets/:id", h.marketDetails)
	group.GET("/markets/:id/verify", h.verifyMarket)
	group.GET("/statistics", h.statistics)
	group.GET("/events", h.events)
	group.POST("/start", h.start)
	group.POST("/stop", h.stop)
}

// @Summary Agent status
// @Tags agent
// @Success 200 {object} apiResponse
// @Router /status [get]
func (h *AgentHandler) status(c *gin.Context) {
	stats := h.Scanner.Stats()
	Ok(c, gin.H{
		"scanning":       h.Scans.Running(),
		"scan_count":     stats.ScanCount,
		"last_scan_at":   stats.LastScanAt,
		"dry_run":        h.Config.Executor.DryRun,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	}, nil)
}

// @Summary Run one scan cycle
// @Tags agent
// @Accept json
// @Param request body scanRequest false "Threshold overrides"
// @Success 200 {object} apiResponse
// @Router /api/v1/scan [post]
func (h *AgentHandler) scan(c *gin.Context) {
	minProb := h.Config.Scanner.MinProbability
	maxProb := h.Config.Scanner.MaxProbability
	window := h.Config.Scanner.MaxHoursToResolution

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		if req.MinProbability != nil {
			minProb = *req.MinProbability
		}
		if req.MaxProbability != nil {
			maxProb = *req.MaxProbability
		}
		if req.TimeWindowHours != nil {
			window = *req.TimeWindowHours
		}
	}

	candidates, err := h.Scanner.ScanMarkets(c.Request.Context(), minProb, maxProb, window)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Activity != nil {
		h.Activity.RecordScan(len(candidates))
	}
	Ok(c, candidates, map[string]any{"qualified": len(candidates)})
}

// @Summary Most recent qualified markets
// @Tags agent
// @Success 200 {object} apiResponse
// @Router /api/v1/markets [get]
func (h *AgentHandler) markets(c *gin.Context) {
	last := h.Scanner.LastQualified()
	Ok(c, last, map[string]any{"count": len(last)})
}

// @Summary One market's full qualification snapshot
// @Tags agent
// @Param id path int true "Market ID"
// @Success 200 {object} apiResponse
// @Router /api/v1/markets/{id} [get]
func (h *AgentHandler) marketDetails(c *gin.Context) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid market id", nil)
		return
	}
	candidate, err := h.Scanner.GetMarketDetails(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if candidate == nil {
		Error(c, http.StatusNotFound, "market not found", nil)
		return
	}
	Ok(c, candidate, nil)
}

// @Summary Independent outcome verification for one market
// @Tags agent
// @Param id path int true "Market ID"
// @Success 200 {object} apiResponse
// @Router /api/v1/markets/{id}/verify [get]
func (h *AgentHandler) verifyMarket(c *gin.Context) {
	if h.Verifier == nil {
		Error(c, http.StatusServiceUnavailable, "verifier disabled", nil)
		return
	}
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid market id", nil)
		return
	}
	candidate, err := h.Scanner.GetMarketDetails(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if candidate == nil {
		Error(c, http.StatusNotFound, "market not found", nil)
		return
	}
	Ok(c, h.Verifier.VerifyOutcome(c.Request.Context(), candidate), nil)
}

// @Summary Scan and trade statistics
// @Tags agent
// @Success 200 {object} apiResponse
// @Router /api/v1/statistics [get]
func (h *AgentHandler) statistics(c *gin.Context) {
	Ok(c, gin.H{
		"activity": h.Activity.Stats(),
		"scanner":  h.Scanner.Stats(),
	}, nil)
}

// @Summary Recent activity events
// @Tags agent
// @Param limit query int false "Max events (default 50)"
// @Success 200 {object} apiResponse
// @Router /api/v1/events [get]
func (h *AgentHandler) events(c *gin.Context) {
	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	evs := h.Activity.Recent(limit)
	Ok(c, evs, map[string]any{"count": len(evs)})
}

// @Summary Start continuous scanning
// @Tags agent
// @Success 202 {object} apiResponse
// @Router /api/v1/start [post]
func (h *AgentHandler) start(c *gin.Context) {
	err := h.Scans.Start(
		h.Config.Scanner.MinProbability,
		h.Config.Scanner.MaxProbability,
		h.Config.Scanner.MaxHoursToResolution,
		h.Callback,
	)
	if err != nil {
		Error(c, http.StatusConflict, err.Error(), nil)
		return
	}
	Accepted(c, "scanning started")
}

// @Summary Stop continuous scanning
// @Tags agent
// @Success 202 {object} apiResponse
// @Router /api/v1/stop [post]
func (h *AgentHandler) stop(c *gin.Context) {
	if err := h.Scans.Stop(); err != nil {
		Error(c, http.StatusConflict, err.Error(), nil)
		return
	}
	Accepted(c, "scanning stopped")
}
