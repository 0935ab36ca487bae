package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"broker/internal/repository"
	"broker/internal/service"
)

type OrderHandler struct {
	Orders *service.OrderService
	Repo   repository.Repository
}

func (h *OrderHandler) Register(r *gin.Engine) {
	o := r.Group("/api/v1/orders")
	o.POST("/buy", h.buy)
	o.POST("/sell", h.sell)

	r.GET("/api/v1/transactions", h.transactions)
}

type orderRequest struct {
	UserID   string  `json:"user_id" binding:"required"`
	Ticker   string  `json:"ticker" binding:"required"`
	Quantity float64 `json:"quantity"`
}

// @Summary Buy at the current market price
// @Tags orders
// @Accept json
// @Param request body orderRequest true "order"
// @Success 200 {object} map[string]any
// @Router /api/v1/orders/buy [post]
func (h *OrderHandler) buy(c *gin.Context) {
	if h.Orders == nil {
		Error(c, http.StatusServiceUnavailable, "order engine unavailable", nil)
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorKind(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	txn, err := h.Orders.ExecuteBuy(c.Request.Context(), strings.TrimSpace(req.UserID), req.Ticker, decimal.NewFromFloat(req.Quantity))
	if err != nil {
		orderError(c, err)
		return
	}
	Ok(c, txn, nil)
}

// @Summary Sell at the current market price
// @Tags orders
// @Accept json
// @Param request body orderRequest true "order"
// @Success 200 {object} map[string]any
// @Router /api/v1/orders/sell [post]
func (h *OrderHandler) sell(c *gin.Context) {
	if h.Orders == nil {
		Error(c, http.StatusServiceUnavailable, "order engine unavailable", nil)
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorKind(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	txn, err := h.Orders.ExecuteSell(c.Request.Context(), strings.TrimSpace(req.UserID), req.Ticker, decimal.NewFromFloat(req.Quantity))
	if err != nil {
		orderError(c, err)
		return
	}
	Ok(c, txn, nil)
}

// @Summary List the append-only transaction log
// @Tags orders
// @Param user_id query string false "filter by user"
// @Param symbol query string false "filter by ticker"
// @Param type query string false "BUY or SELL"
// @Success 200 {object} map[string]any
// @Router /api/v1/transactions [get]
func (h *OrderHandler) transactions(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListTransactionsParams{
		Limit:  limit,
		Offset: offset,
		UserID: strQueryPtr(c, "user_id"),
		Symbol: strQueryPtr(c, "symbol"),
		Type:   strQueryPtr(c, "type"),
	}
	items, err := h.Repo.ListTransactions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountTransactions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
