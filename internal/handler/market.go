package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"broker/internal/service"
)

type MarketHandler struct {
	Overview *service.MarketOverviewService
	Quotes   service.QuoteGateway
}

func (h *MarketHandler) Register(r *gin.Engine) {
	m := r.Group("/api/v1/market")
	m.GET("/overview", h.overview)

	r.GET("/api/v1/search", h.search)
}

// @Summary Market overview for a fixed set of indices and crypto
// @Tags market
// @Success 200 {object} map[string]any
// @Router /api/v1/market/overview [get]
func (h *MarketHandler) overview(c *gin.Context) {
	if h.Overview == nil {
		Error(c, http.StatusServiceUnavailable, "market overview unavailable", nil)
		return
	}
	Ok(c, h.Overview.Overview(c.Request.Context()), nil)
}

// @Summary Search tickers by free text
// @Tags market
// @Param q query string true "query"
// @Success 200 {object} map[string]any
// @Router /api/v1/search [get]
func (h *MarketHandler) search(c *gin.Context) {
	if h.Quotes == nil {
		Error(c, http.StatusServiceUnavailable, "search unavailable", nil)
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		ErrorKind(c, http.StatusBadRequest, "invalid_input", "q is required")
		return
	}
	results, err := h.Quotes.Search(c.Request.Context(), query)
	if err != nil {
		Error(c, http.StatusBadGateway, "search failed", nil)
		return
	}
	Ok(c, results, map[string]any{"count": len(results)})
}
