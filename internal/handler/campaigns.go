package handler

import (
	"net/http"
	"time"

	"alpha-radar/internal/domain"
	"alpha-radar/internal/indicator"

	"github.com/gin-gonic/gin"
)

type campaignRow struct {
	Symbol        string `json:"symbol"`
	EndDate       string `json:"end_date"`
	Type          string `json:"type"`
	DaysRemaining int    `json:"days_remaining"`
}

// GetCampaigns godoc
// @Summary      List watched campaigns
// @Description  Returns the configured campaign watch-list with end dates
// @Tags         campaigns
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/campaigns [get]
func (h *Handler) GetCampaigns(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-campaigns")
	defer span.End()

	entries := h.refreshService.Registry().Entries()
	rows := make([]campaignRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, campaignRow{
			Symbol:        e.Symbol,
			EndDate:       e.End.Format("2006-01-02"),
			Type:          string(e.Type),
			DaysRemaining: indicator.DaysRemaining(e.End, time.Now().UTC()),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns":     rows,
		"announcements": domain.AnnouncementURL,
	})
}

// GetHistory godoc
// @Summary      Past airdrop outcomes
// @Description  Returns recorded allocation and peak-multiple figures for finished campaigns
// @Tags         campaigns
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{"airdrops": domain.HistoryAirdrops})
}
