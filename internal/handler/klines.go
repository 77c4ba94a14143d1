package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetKlines godoc
// @Summary      Get stored daily klines
// @Description  Returns the daily bars collected for a watched symbol, newest first
// @Tags         klines
// @Produce      json
// @Param        symbol  path   string  true   "Trading pair (e.g., LISTAUSDT)"
// @Param        limit   query  int     false  "Number of bars (default 30, max 365)"  default(30)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/klines/{symbol} [get]
func (h *Handler) GetKlines(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-klines")
	defer span.End()

	if h.klines == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "kline storage is not configured"})
		return
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	reg := h.refreshService.Registry()
	if _, ok := reg.Lookup(symbol); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "unwatched symbol: " + symbol,
			"watched_symbols": reg.Symbols(),
		})
		return
	}

	limit := 30
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 365 {
			limit = n
		}
	}

	bars, err := h.klines.GetKlines(ctx, symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"klines": bars,
	})
}
