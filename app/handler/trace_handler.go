package handler

import (
	"errors"
	"io"
	"net/http"

	"carbontrace/internal/model"
	"carbontrace/pkg/constants"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TraceHandler handles trace upload and analysis
type TraceHandler struct {
	traceService TraceService
}

// NewTraceHandler creates trace handler
func NewTraceHandler(traceService TraceService) *TraceHandler {
	return &TraceHandler{traceService: traceService}
}

// Upload stores a trace file
// @Summary Upload trace file
// @Description Upload a CSV trace as multipart field "file"; optional form field "hardware"
// @Tags traces
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} model.Trace
// @Router /api/data-sources/upload [post]
func (h *TraceHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, "upload", err)
		return
	}
	defer f.Close()

	trace, err := h.traceService.Upload(c.Request.Context(), fh.Filename, f, c.PostForm("hardware"))
	if err != nil {
		respondError(c, "upload", err)
		return
	}

	c.JSON(http.StatusOK, trace)
}

// ListTraces lists traces newest first
// @Summary List traces
// @Tags traces
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 20, max 100)"
// @Success 200 {object} model.TraceListResponse
// @Router /api/traces [get]
func (h *TraceHandler) ListTraces(c *gin.Context) {
	resp, err := h.traceService.ListTraces(c.Request.Context(), queryInt(c, "page"), queryInt(c, "size"))
	if err != nil {
		respondError(c, "list traces", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetTrace gets one trace
// @Summary Get trace
// @Tags traces
// @Produce json
// @Param id path int true "Trace ID"
// @Success 200 {object} model.Trace
// @Router /api/traces/{id} [get]
func (h *TraceHandler) GetTrace(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	trace, err := h.traceService.GetTrace(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get trace", err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

// Analyze runs the analysis engine on a trace
// @Summary Analyze trace
// @Description Runs synchronously unless async=true, which enqueues the run and returns 202
// @Tags traces
// @Produce json
// @Param id path int true "Trace ID"
// @Param async query bool false "Enqueue instead of waiting"
// @Success 200 {object} model.AnalysisResult
// @Success 202 {object} model.AnalysisAccepted
// @Router /api/traces/{id}/analyze [post]
func (h *TraceHandler) Analyze(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if c.Query("async") == "true" {
		h.enqueue(c, &interfaces.AnalysisJob{TraceID: id, Action: constants.ActionAnalyze})
		return
	}

	result, err := h.traceService.Analyze(c.Request.Context(), id)
	if err != nil {
		respondError(c, "analyze", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Execute runs the analysis engine with an optional hardware override
// @Summary Execute trace
// @Tags traces
// @Accept json
// @Produce json
// @Param id path int true "Trace ID"
// @Param async query bool false "Enqueue instead of waiting"
// @Param request body model.ExecuteRequest false "Hardware override"
// @Success 200 {object} model.AnalysisResult
// @Success 202 {object} model.AnalysisAccepted
// @Router /api/traces/{id}/execute [post]
func (h *TraceHandler) Execute(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnCtx(c.Request.Context(), "invalid execute request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if c.Query("async") == "true" {
		h.enqueue(c, &interfaces.AnalysisJob{TraceID: id, Action: constants.ActionExecute, Hardware: req.Hardware})
		return
	}

	result, err := h.traceService.Execute(c.Request.Context(), id, req.Hardware)
	if err != nil {
		respondError(c, "execute", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TraceHandler) enqueue(c *gin.Context, job *interfaces.AnalysisJob) {
	accepted, err := h.traceService.Enqueue(c.Request.Context(), job)
	if err != nil {
		respondError(c, "enqueue "+string(job.Action), err)
		return
	}
	c.JSON(http.StatusAccepted, accepted)
}
