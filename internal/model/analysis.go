package model

import (
	"encoding/json"
	"time"
)

// AnalysisResult stored analysis of one trace
type AnalysisResult struct {
	ID                   int64           `json:"id"`
	TraceID              int64           `json:"traceId"`
	FileName             string          `json:"fileName,omitempty"`
	AnalysisTime         time.Time       `json:"analysisTime"`
	TotalEnergy          *float64        `json:"totalEnergy"`
	TotalCarbonFootprint *float64        `json:"totalCarbonFootprint"`
	TotalRuntime         *float64        `json:"totalRuntime"`
	AvgCPUUtilization    *float64        `json:"avgCpuUtilization"`
	RawData              json.RawMessage `json:"rawData"`
}

// ExportedAnalysis file format written by export and read by import
type ExportedAnalysis struct {
	ID                   int64           `json:"id"`
	FileName             string          `json:"fileName"`
	AnalysisTime         time.Time       `json:"analysisTime"`
	TotalEnergy          *float64        `json:"totalEnergy"`
	TotalCarbonFootprint *float64        `json:"totalCarbonFootprint"`
	TotalRuntime         *float64        `json:"totalRuntime"`
	AvgCPUUtilization    *float64        `json:"avgCpuUtilization"`
	RawData              json.RawMessage `json:"rawData"`
}

// ExportResponse export result
type ExportResponse struct {
	FilePath string `json:"filePath"`
}

// ImportRequest import request body
type ImportRequest struct {
	FileName string `json:"fileName" binding:"required"` // base name inside the export directory
}
