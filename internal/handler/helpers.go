package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"broker/internal/service"
)

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}

// orderError maps the service error taxonomy to an HTTP status and a
// stable kind string.
func orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		ErrorKind(c, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		ErrorKind(c, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, service.ErrQuoteUnavailable):
		ErrorKind(c, http.StatusNotFound, "quote_unavailable", err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		ErrorKind(c, http.StatusBadRequest, "insufficient_funds", err.Error())
	case errors.Is(err, service.ErrInsufficientShares):
		ErrorKind(c, http.StatusBadRequest, "insufficient_shares", err.Error())
	default:
		ErrorKind(c, http.StatusBadGateway, "internal", err.Error())
	}
}
