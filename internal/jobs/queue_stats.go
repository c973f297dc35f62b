package jobs

import (
	"context"
	"fmt"
	"time"

	"carbontrace/pkg/metrics"
)

// PendingCounter reports how many analyses wait in the queue
type PendingCounter interface {
	GetPendingCount() (int, error)
}

// QueueStatsJob publishes the async queue backlog as a gauge
type QueueStatsJob struct {
	interval time.Duration
	queue    PendingCounter
}

// NewQueueStatsJob creates the queue stats job
func NewQueueStatsJob(interval time.Duration, queue PendingCounter) *QueueStatsJob {
	return &QueueStatsJob{interval: interval, queue: queue}
}

func (j *QueueStatsJob) Name() string {
	return "queue-stats"
}

func (j *QueueStatsJob) Interval() time.Duration {
	return j.interval
}

func (j *QueueStatsJob) Run(ctx context.Context) error {
	if j.queue == nil {
		return fmt.Errorf("queue stats not configured")
	}

	pending, err := j.queue.GetPendingCount()
	if err != nil {
		return fmt.Errorf("failed to read queue backlog: %w", err)
	}
	metrics.SetQueuePending(pending)
	return nil
}
