package asynq

import (
	"context"
	"encoding/json"
	"fmt"

	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"

	"github.com/hibiken/asynq"
)

// RunFunc performs one analysis job
type RunFunc func(ctx context.Context, job *interfaces.AnalysisJob) error

// NewAnalysisHandler adapts run to an asynq handler. Failures skip retry.
func NewAnalysisHandler(run RunFunc) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		var job interfaces.AnalysisJob
		if err := json.Unmarshal(task.Payload(), &job); err != nil {
			return fmt.Errorf("invalid analysis payload: %v: %w", err, asynq.SkipRetry)
		}

		if id, ok := asynq.GetTaskID(ctx); ok {
			ctx = logger.WithTraceID(ctx, id)
		}

		logger.InfoCtx(ctx, "processing queued %s for trace %d", job.Action, job.TraceID)
		if err := run(ctx, &job); err != nil {
			return fmt.Errorf("%s trace %d: %v: %w", job.Action, job.TraceID, err, asynq.SkipRetry)
		}
		return nil
	})
}
