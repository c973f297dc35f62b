package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carbontrace/internal/model"
	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/constants"
	"carbontrace/pkg/engine"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"
	"carbontrace/pkg/store/mysql"
	mysqlModel "carbontrace/pkg/store/mysql/model"
)

const (
	entityAnalysisResult = "analysis result"
	entityTrace          = "trace"
)

// AnalysisService ingests engine documents and serves stored results
type AnalysisService struct {
	results interfaces.ResultStore
	traces  interfaces.TraceStore
	tx      interfaces.Transactor
	exports ExportFileStore
	now     func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(results interfaces.ResultStore, traces interfaces.TraceStore, tx interfaces.Transactor, exports ExportFileStore) *AnalysisService {
	return &AnalysisService{
		results: results,
		traces:  traces,
		tx:      tx,
		exports: exports,
		now:     time.Now,
	}
}

// BuildResult converts an engine document into a result record for traceID.
// Summary columns read summary.{totalEnergy,...}; a present summary object
// fills missing or non-numeric keys with 0.0, an absent one leaves them nil.
func BuildResult(traceID int64, doc *engine.Document, analyzedAt time.Time) *mysqlModel.AnalysisResult {
	result := &mysqlModel.AnalysisResult{
		TraceID:      traceID,
		AnalysisTime: analyzedAt,
		RawData:      mysqlModel.RawJSON(doc.Raw()),
	}

	if doc.HasSummary() {
		summary := doc.Summary()
		result.TotalEnergy = orZero(summary.TotalEnergy)
		result.TotalCarbonFootprint = orZero(summary.TotalCarbonFootprint)
		result.TotalRuntime = orZero(summary.TotalRuntime)
		result.AvgCPUUtilization = orZero(summary.AvgCPUUtilization)
	}

	return result
}

func orZero(v *float64) *float64 {
	if v != nil {
		return v
	}
	zero := 0.0
	return &zero
}

// Ingest stores doc as the result of trace, replacing any earlier result
func (s *AnalysisService) Ingest(ctx context.Context, trace *mysqlModel.Trace, doc *engine.Document) (*mysqlModel.AnalysisResult, error) {
	result := BuildResult(trace.ID, doc, s.now())

	if err := s.results.ReplaceForTrace(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save analysis result for trace %d: %w", trace.ID, err)
	}
	result.Trace = trace

	logger.InfoCtx(ctx, "analysis result saved, result_id: %d, trace_id: %d", result.ID, trace.ID)
	return result, nil
}

// GetResult retrieves a result by ID
func (s *AnalysisService) GetResult(ctx context.Context, id int64) (*model.AnalysisResult, error) {
	result, err := s.results.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	if result == nil {
		return nil, apperrors.NewNotFoundError(entityAnalysisResult, id)
	}
	return mysql.ToAnalysisResultDomain(result), nil
}

// GetResultByTrace retrieves the result owned by a trace
func (s *AnalysisService) GetResultByTrace(ctx context.Context, traceID int64) (*model.AnalysisResult, error) {
	result, err := s.results.GetByTraceID(ctx, traceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	if result == nil {
		return nil, apperrors.NewNotFoundError(entityAnalysisResult+" for trace", traceID)
	}
	return mysql.ToAnalysisResultDomain(result), nil
}

// Export writes a result to the export directory and returns the file path
func (s *AnalysisService) Export(ctx context.Context, id int64) (*model.ExportResponse, error) {
	result, err := s.results.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	if result == nil {
		return nil, apperrors.NewNotFoundError(entityAnalysisResult, id)
	}

	exported := model.ExportedAnalysis{
		ID:                   result.ID,
		AnalysisTime:         result.AnalysisTime,
		TotalEnergy:          result.TotalEnergy,
		TotalCarbonFootprint: result.TotalCarbonFootprint,
		TotalRuntime:         result.TotalRuntime,
		AvgCPUUtilization:    result.AvgCPUUtilization,
		RawData:              json.RawMessage(result.RawData),
	}
	if result.Trace != nil {
		exported.FileName = result.Trace.FileName
	}

	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result %d: %w", id, err)
	}

	path, err := s.exports.Write(ctx, id, data)
	if err != nil {
		return nil, err
	}
	return &model.ExportResponse{FilePath: path}, nil
}

// Import reads an export file and stores it as a new result owned by a new
// ANALYZED placeholder trace. The summary is re-derived from the raw data.
// The placeholder has no stored trace file, so it cannot be re-run.
func (s *AnalysisService) Import(ctx context.Context, fileName string) (*model.AnalysisResult, error) {
	data, err := s.exports.Read(ctx, fileName)
	if err != nil {
		return nil, err
	}

	var exported model.ExportedAnalysis
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, apperrors.NewValidationError("fileName", fmt.Sprintf("not an exported analysis: %v", err))
	}

	doc, err := engine.Parse(exported.RawData)
	if err != nil {
		return nil, apperrors.NewValidationError("fileName", fmt.Sprintf("exported raw data is not valid JSON: %v", err))
	}

	traceName := exported.FileName
	if traceName == "" {
		traceName = fileName
	}

	now := s.now()
	trace := &mysqlModel.Trace{
		FileName:   traceName,
		UploadTime: now,
		Status:     constants.TraceStatusAnalyzed.String(),
	}

	var result *mysqlModel.AnalysisResult
	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.traces.Create(ctx, trace); err != nil {
			return err
		}
		result = BuildResult(trace.ID, doc, now)
		return s.results.ReplaceForTrace(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import analysis from %s: %w", fileName, err)
	}
	result.Trace = trace

	logger.InfoCtx(ctx, "imported analysis from %s as result %d (trace %d)", fileName, result.ID, trace.ID)
	return mysql.ToAnalysisResultDomain(result), nil
}
