package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetIndicators godoc
// @Summary      Get the current indicator board
// @Description  Returns per-symbol indicators for every watched campaign, served from cache when fresh
// @Tags         board
// @Produce      json
// @Success      200  {object}  domain.Board
// @Router       /api/indicators [get]
func (h *Handler) GetIndicators(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-indicators")
	defer span.End()

	board := h.refreshService.Latest(ctx)
	span.SetAttributes(
		attribute.String("board.mode", string(board.Mode)),
		attribute.Int("board.records", len(board.Records)),
	)

	c.JSON(http.StatusOK, board)
}

// ForceRefresh godoc
// @Summary      Force a refresh cycle
// @Description  Recomputes the board immediately, bypassing the cache
// @Tags         board
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  domain.Board
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/refresh [post]
func (h *Handler) ForceRefresh(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.force-refresh")
	defer span.End()

	board := h.refreshService.Refresh(ctx)
	span.SetAttributes(attribute.String("board.mode", string(board.Mode)))

	c.JSON(http.StatusOK, board)
}
