package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"broker/internal/service"
)

type PortfolioHandler struct {
	Valuation *service.ValuationService
	History   *service.HistoryService
}

func (h *PortfolioHandler) Register(r *gin.Engine) {
	p := r.Group("/api/v1/portfolio")
	p.GET("/:user_id", h.portfolio)
	p.GET("/:user_id/history", h.history)
}

// @Summary Full portfolio valuation for a user
// @Tags portfolio
// @Param user_id path string true "user id"
// @Success 200 {object} map[string]any
// @Router /api/v1/portfolio/{user_id} [get]
func (h *PortfolioHandler) portfolio(c *gin.Context) {
	if h.Valuation == nil {
		Error(c, http.StatusServiceUnavailable, "valuation unavailable", nil)
		return
	}
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		ErrorKind(c, http.StatusBadRequest, "invalid_input", "user_id is required")
		return
	}
	view, err := h.Valuation.Portfolio(c.Request.Context(), userID)
	if err != nil {
		orderError(c, err)
		return
	}
	Ok(c, view, nil)
}

// @Summary Historical portfolio value series
// @Tags portfolio
// @Param user_id path string true "user id"
// @Param range query string false "1d, 1w, 1m or 1y" default(1d)
// @Success 200 {object} map[string]any
// @Router /api/v1/portfolio/{user_id}/history [get]
func (h *PortfolioHandler) history(c *gin.Context) {
	if h.History == nil {
		Error(c, http.StatusServiceUnavailable, "history unavailable", nil)
		return
	}
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		ErrorKind(c, http.StatusBadRequest, "invalid_input", "user_id is required")
		return
	}
	points, err := h.History.Series(c.Request.Context(), userID, strings.TrimSpace(c.Query("range")))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, points, map[string]any{"count": len(points)})
}
