package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"carbontrace/app/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetup_RegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewRouter(handler.NewTraceHandler(nil), handler.NewAnalysisHandler(nil), handler.NewDashboardHandler(nil, nil)).Setup(engine)

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"POST /api/data-sources/upload",
		"GET /api/traces",
		"GET /api/traces/:id",
		"POST /api/traces/:id/analyze",
		"POST /api/traces/:id/execute",
		"GET /api/analysis/:id",
		"GET /api/analysis/trace/:traceId",
		"GET /api/dashboard/summary",
		"GET /api/dashboard/recent-analyses",
		"GET /api/dashboard/top-consumers",
		"POST /api/dashboard/export/:resultId",
		"POST /api/dashboard/import",
		"GET /api/visualization/:resultId",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/traces/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
