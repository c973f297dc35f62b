package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard aggregations and chart data
type DashboardHandler struct {
	dashboardService     DashboardService
	visualizationService VisualizationService
}

// NewDashboardHandler creates dashboard handler
func NewDashboardHandler(dashboardService DashboardService, visualizationService VisualizationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:     dashboardService,
		visualizationService: visualizationService,
	}
}

// GetSummary totals over all complete analyses
// @Summary Dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.DashboardSummary
// @Router /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, "dashboard summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetRecentAnalyses newest analyses first
// @Summary Recent analyses
// @Tags dashboard
// @Produce json
// @Param limit query int false "Max rows (default 5, max 100)"
// @Success 200 {array} model.AnalysisSummary
// @Router /api/dashboard/recent-analyses [get]
func (h *DashboardHandler) GetRecentAnalyses(c *gin.Context) {
	recent, err := h.dashboardService.GetRecentAnalyses(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		respondError(c, "recent analyses", err)
		return
	}
	c.JSON(http.StatusOK, recent)
}

// GetTopConsumers highest energy tasks across all results
// @Summary Top energy consumers
// @Tags dashboard
// @Produce json
// @Param limit query int false "Max rows (default 10, max 100)"
// @Success 200 {array} model.EnergyConsumer
// @Router /api/dashboard/top-consumers [get]
func (h *DashboardHandler) GetTopConsumers(c *gin.Context) {
	top, err := h.dashboardService.GetTopEnergyConsumers(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		respondError(c, "top consumers", err)
		return
	}
	c.JSON(http.StatusOK, top)
}

// GetVisualization chart data for one result
// @Summary Visualization data
// @Tags visualization
// @Produce json
// @Param resultId path int true "Result ID"
// @Success 200 {object} model.VisualizationData
// @Router /api/visualization/{resultId} [get]
func (h *DashboardHandler) GetVisualization(c *gin.Context) {
	id, ok := paramID(c, "resultId")
	if !ok {
		return
	}

	data, err := h.visualizationService.GetVisualizationData(c.Request.Context(), id)
	if err != nil {
		respondError(c, "visualization", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Healthz liveness probe
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
