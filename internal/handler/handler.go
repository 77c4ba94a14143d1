package handler

import (
	"context"

	"alpha-radar/internal/domain"
	"alpha-radar/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// KlineReader serves the stored daily bars back out over the API.
type KlineReader interface {
	GetKlines(ctx context.Context, symbol string, limit int) ([]domain.KlineBar, error)
}

type Handler struct {
	tracer         trace.Tracer
	refreshService *service.RefreshService
	klines         KlineReader
}

func New(tracer trace.Tracer, refreshService *service.RefreshService, klines KlineReader) *Handler {
	return &Handler{
		tracer:         tracer,
		refreshService: refreshService,
		klines:         klines,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.GET("/api/indicators", h.GetIndicators)
	r.GET("/api/campaigns", h.GetCampaigns)
	r.GET("/api/history", h.GetHistory)
	r.GET("/api/klines/:symbol", h.GetKlines)
	r.POST("/api/refresh", APIKeyAuth(apiKey), h.ForceRefresh)
}
