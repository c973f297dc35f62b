package mysql

import (
	"encoding/json"

	"carbontrace/internal/model"
	"carbontrace/pkg/constants"
)

// ToTraceDomain converts MySQL Trace to domain Trace model
func ToTraceDomain(mysqlTrace *Trace) *model.Trace {
	if mysqlTrace == nil {
		return nil
	}

	trace := &model.Trace{
		ID:                mysqlTrace.ID,
		FileName:          mysqlTrace.FileName,
		FilePath:          mysqlTrace.FilePath,
		UploadTime:        mysqlTrace.UploadTime,
		LastExecutionTime: mysqlTrace.LastExecutionTime,
		Status:            constants.TraceStatus(mysqlTrace.Status),
	}
	if mysqlTrace.HardwareConfig != nil {
		trace.HardwareConfig = *mysqlTrace.HardwareConfig
	}
	return trace
}

// ToAnalysisResultDomain converts MySQL AnalysisResult to domain model.
// FileName is filled when the trace was preloaded.
func ToAnalysisResultDomain(mysqlResult *AnalysisResult) *model.AnalysisResult {
	if mysqlResult == nil {
		return nil
	}

	result := &model.AnalysisResult{
		ID:                   mysqlResult.ID,
		TraceID:              mysqlResult.TraceID,
		AnalysisTime:         mysqlResult.AnalysisTime,
		TotalEnergy:          mysqlResult.TotalEnergy,
		TotalCarbonFootprint: mysqlResult.TotalCarbonFootprint,
		TotalRuntime:         mysqlResult.TotalRuntime,
		AvgCPUUtilization:    mysqlResult.AvgCPUUtilization,
		RawData:              json.RawMessage(mysqlResult.RawData),
	}
	if mysqlResult.Trace != nil {
		result.FileName = mysqlResult.Trace.FileName
	}
	return result
}

// ToAnalysisSummary converts MySQL AnalysisResult to a dashboard row
func ToAnalysisSummary(mysqlResult *AnalysisResult) *model.AnalysisSummary {
	if mysqlResult == nil {
		return nil
	}

	summary := &model.AnalysisSummary{
		ID:                   mysqlResult.ID,
		AnalyzedAt:           mysqlResult.AnalysisTime,
		TotalEnergy:          mysqlResult.TotalEnergy,
		TotalCarbonFootprint: mysqlResult.TotalCarbonFootprint,
		TotalRuntime:         mysqlResult.TotalRuntime,
	}
	if mysqlResult.Trace != nil {
		summary.FileName = mysqlResult.Trace.FileName
	}
	return summary
}
