package model

import (
	"time"

	"carbontrace/pkg/constants"
)

// Trace uploaded trace file
type Trace struct {
	ID                int64                 `json:"id"`
	FileName          string                `json:"fileName"`
	FilePath          string                `json:"filePath"`
	UploadTime        time.Time             `json:"uploadTime"`
	LastExecutionTime *time.Time            `json:"lastExecutionTime,omitempty"`
	Status            constants.TraceStatus `json:"status"`
	HardwareConfig    string                `json:"hardwareConfig,omitempty"`
}

// TraceListResponse paginated trace list
type TraceListResponse struct {
	Traces []*Trace `json:"traces"`
	Total  int64    `json:"total"`
	Page   int      `json:"page"`
	Size   int      `json:"size"`
}

// ExecuteRequest execute request body
type ExecuteRequest struct {
	Hardware string `json:"hardware,omitempty"` // overrides the trace's hardware config when non-blank
}

// AnalysisAccepted response for an enqueued analysis
type AnalysisAccepted struct {
	TraceID int64                    `json:"traceId"`
	Action  constants.AnalysisAction `json:"action"`
	TaskID  string                   `json:"taskId"`
}
