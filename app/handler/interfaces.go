package handler

import (
	"context"
	"io"

	"carbontrace/internal/model"
	"carbontrace/pkg/interfaces"
)

// TraceService trace lifecycle operations used by TraceHandler
type TraceService interface {
	Upload(ctx context.Context, fileName string, r io.Reader, hardware string) (*model.Trace, error)
	GetTrace(ctx context.Context, id int64) (*model.Trace, error)
	ListTraces(ctx context.Context, page, size int) (*model.TraceListResponse, error)
	Analyze(ctx context.Context, id int64) (*model.AnalysisResult, error)
	Execute(ctx context.Context, id int64, hardware string) (*model.AnalysisResult, error)
	Enqueue(ctx context.Context, job *interfaces.AnalysisJob) (*model.AnalysisAccepted, error)
}

// AnalysisService result lookup, export and import
type AnalysisService interface {
	GetResult(ctx context.Context, id int64) (*model.AnalysisResult, error)
	GetResultByTrace(ctx context.Context, traceID int64) (*model.AnalysisResult, error)
	Export(ctx context.Context, id int64) (*model.ExportResponse, error)
	Import(ctx context.Context, fileName string) (*model.AnalysisResult, error)
}

// DashboardService dashboard aggregations
type DashboardService interface {
	GetSummary(ctx context.Context) (*model.DashboardSummary, error)
	GetRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisSummary, error)
	GetTopEnergyConsumers(ctx context.Context, limit int) ([]*model.EnergyConsumer, error)
}

// VisualizationService chart projection
type VisualizationService interface {
	GetVisualizationData(ctx context.Context, resultID int64) (*model.VisualizationData, error)
}
