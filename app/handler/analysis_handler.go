package handler

import (
	"net/http"

	"carbontrace/internal/model"
	"carbontrace/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles analysis results, export and import
type AnalysisHandler struct {
	analysisService AnalysisService
}

// NewAnalysisHandler creates analysis handler
func NewAnalysisHandler(analysisService AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// GetResult gets a result by id
// @Summary Get analysis result
// @Tags analysis
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} model.AnalysisResult
// @Router /api/analysis/{id} [get]
func (h *AnalysisHandler) GetResult(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.analysisService.GetResult(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get analysis", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResultByTrace gets the result owned by a trace
// @Summary Get analysis result by trace
// @Tags analysis
// @Produce json
// @Param traceId path int true "Trace ID"
// @Success 200 {object} model.AnalysisResult
// @Router /api/analysis/trace/{traceId} [get]
func (h *AnalysisHandler) GetResultByTrace(c *gin.Context) {
	traceID, ok := paramID(c, "traceId")
	if !ok {
		return
	}

	result, err := h.analysisService.GetResultByTrace(c.Request.Context(), traceID)
	if err != nil {
		respondError(c, "get analysis by trace", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export writes a result to the export directory
// @Summary Export analysis result
// @Tags dashboard
// @Produce json
// @Param resultId path int true "Result ID"
// @Success 200 {object} model.ExportResponse
// @Router /api/dashboard/export/{resultId} [post]
func (h *AnalysisHandler) Export(c *gin.Context) {
	id, ok := paramID(c, "resultId")
	if !ok {
		return
	}

	resp, err := h.analysisService.Export(c.Request.Context(), id)
	if err != nil {
		respondError(c, "export", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Import re-ingests a previously exported file
// @Summary Import analysis result
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body model.ImportRequest true "Export file name"
// @Success 200 {object} model.AnalysisResult
// @Router /api/dashboard/import [post]
func (h *AnalysisHandler) Import(c *gin.Context) {
	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnCtx(c.Request.Context(), "invalid import request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileName required"})
		return
	}

	result, err := h.analysisService.Import(c.Request.Context(), req.FileName)
	if err != nil {
		respondError(c, "import", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
