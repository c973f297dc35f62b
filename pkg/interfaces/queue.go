package interfaces

import (
	"context"

	"carbontrace/pkg/constants"
)

// AnalysisJob queued analyze/execute request
type AnalysisJob struct {
	TraceID  int64                    `json:"trace_id"`
	Action   constants.AnalysisAction `json:"action"`
	Hardware string                   `json:"hardware,omitempty"`
}

// AnalysisQueue hands analysis jobs to background workers
type AnalysisQueue interface {
	// EnqueueAnalysis returns the queue task id
	EnqueueAnalysis(ctx context.Context, job *AnalysisJob) (string, error)
}
