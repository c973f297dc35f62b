package handler

import (
	"context"
	"io"

	"carbontrace/internal/model"
	"carbontrace/pkg/interfaces"
)

type mockTraceService struct {
	uploadFunc  func(ctx context.Context, fileName string, r io.Reader, hardware string) (*model.Trace, error)
	getFunc     func(ctx context.Context, id int64) (*model.Trace, error)
	listFunc    func(ctx context.Context, page, size int) (*model.TraceListResponse, error)
	analyzeFunc func(ctx context.Context, id int64) (*model.AnalysisResult, error)
	executeFunc func(ctx context.Context, id int64, hardware string) (*model.AnalysisResult, error)
	enqueueFunc func(ctx context.Context, job *interfaces.AnalysisJob) (*model.AnalysisAccepted, error)
}

func (m *mockTraceService) Upload(ctx context.Context, fileName string, r io.Reader, hardware string) (*model.Trace, error) {
	return m.uploadFunc(ctx, fileName, r, hardware)
}

func (m *mockTraceService) GetTrace(ctx context.Context, id int64) (*model.Trace, error) {
	return m.getFunc(ctx, id)
}

func (m *mockTraceService) ListTraces(ctx context.Context, page, size int) (*model.TraceListResponse, error) {
	return m.listFunc(ctx, page, size)
}

func (m *mockTraceService) Analyze(ctx context.Context, id int64) (*model.AnalysisResult, error) {
	return m.analyzeFunc(ctx, id)
}

func (m *mockTraceService) Execute(ctx context.Context, id int64, hardware string) (*model.AnalysisResult, error) {
	return m.executeFunc(ctx, id, hardware)
}

func (m *mockTraceService) Enqueue(ctx context.Context, job *interfaces.AnalysisJob) (*model.AnalysisAccepted, error) {
	return m.enqueueFunc(ctx, job)
}

type mockAnalysisService struct {
	getFunc        func(ctx context.Context, id int64) (*model.AnalysisResult, error)
	getByTraceFunc func(ctx context.Context, traceID int64) (*model.AnalysisResult, error)
	exportFunc     func(ctx context.Context, id int64) (*model.ExportResponse, error)
	importFunc     func(ctx context.Context, fileName string) (*model.AnalysisResult, error)
}

func (m *mockAnalysisService) GetResult(ctx context.Context, id int64) (*model.AnalysisResult, error) {
	return m.getFunc(ctx, id)
}

func (m *mockAnalysisService) GetResultByTrace(ctx context.Context, traceID int64) (*model.AnalysisResult, error) {
	return m.getByTraceFunc(ctx, traceID)
}

func (m *mockAnalysisService) Export(ctx context.Context, id int64) (*model.ExportResponse, error) {
	return m.exportFunc(ctx, id)
}

func (m *mockAnalysisService) Import(ctx context.Context, fileName string) (*model.AnalysisResult, error) {
	return m.importFunc(ctx, fileName)
}

type mockDashboardService struct {
	summaryFunc func(ctx context.Context) (*model.DashboardSummary, error)
	recentFunc  func(ctx context.Context, limit int) ([]*model.AnalysisSummary, error)
	topFunc     func(ctx context.Context, limit int) ([]*model.EnergyConsumer, error)
}

func (m *mockDashboardService) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	return m.summaryFunc(ctx)
}

func (m *mockDashboardService) GetRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisSummary, error) {
	return m.recentFunc(ctx, limit)
}

func (m *mockDashboardService) GetTopEnergyConsumers(ctx context.Context, limit int) ([]*model.EnergyConsumer, error) {
	return m.topFunc(ctx, limit)
}

type mockVisualizationService struct {
	getFunc func(ctx context.Context, resultID int64) (*model.VisualizationData, error)
}

func (m *mockVisualizationService) GetVisualizationData(ctx context.Context, resultID int64) (*model.VisualizationData, error) {
	return m.getFunc(ctx, resultID)
}
