package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Kind    string         `json:"kind,omitempty"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// ErrorKind reports a structured order/valuation failure: an HTTP status, a
// stable machine-readable kind and a human-readable message.
func ErrorKind(c *gin.Context, status int, kind, message string) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Kind:    kind,
	})
}
