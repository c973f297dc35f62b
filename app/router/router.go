package router

import (
	"carbontrace/app/handler"
	"carbontrace/app/middleware"
	"carbontrace/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	traceHandler     *handler.TraceHandler
	analysisHandler  *handler.AnalysisHandler
	dashboardHandler *handler.DashboardHandler
}

// NewRouter creates a new Router
func NewRouter(traceHandler *handler.TraceHandler, analysisHandler *handler.AnalysisHandler, dashboardHandler *handler.DashboardHandler) *Router {
	return &Router{
		traceHandler:     traceHandler,
		analysisHandler:  analysisHandler,
		dashboardHandler: dashboardHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.TraceID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	engine.GET("/healthz", handler.Healthz)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")
	{
		api.GET("/healthz", handler.Healthz)

		api.POST("/data-sources/upload", r.traceHandler.Upload)

		traces := api.Group("/traces")
		{
			traces.GET("", r.traceHandler.ListTraces)
			traces.GET("/:id", r.traceHandler.GetTrace)
			traces.POST("/:id/analyze", r.traceHandler.Analyze)
			traces.POST("/:id/execute", r.traceHandler.Execute)
		}

		analysis := api.Group("/analysis")
		{
			analysis.GET("/:id", r.analysisHandler.GetResult)
			analysis.GET("/trace/:traceId", r.analysisHandler.GetResultByTrace)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", r.dashboardHandler.GetSummary)
			dashboard.GET("/recent-analyses", r.dashboardHandler.GetRecentAnalyses)
			dashboard.GET("/top-consumers", r.dashboardHandler.GetTopConsumers)
			dashboard.POST("/export/:resultId", r.analysisHandler.Export)
			dashboard.POST("/import", r.analysisHandler.Import)
		}

		api.GET("/visualization/:resultId", r.dashboardHandler.GetVisualization)
	}
}
