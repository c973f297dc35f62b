package jobs

import (
	"context"
	"fmt"
	"time"

	"carbontrace/pkg/lock"
	"carbontrace/pkg/logger"
	"carbontrace/pkg/metrics"
)

// UploadSweepLockKey keeps the sweep single-instance across replicas
const UploadSweepLockKey = "jobs:upload-sweep"

// FilePathLister lists the stored paths still referenced by a trace
type FilePathLister interface {
	ListFilePaths(ctx context.Context) ([]string, error)
}

// OrphanSweeper removes unreferenced upload files older than cutoff
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, referenced []string, cutoff time.Time) (int, error)
}

// UploadSweepJob removes uploaded files whose trace row was never written,
// e.g. when the process died between storing the file and saving metadata.
type UploadSweepJob struct {
	interval        time.Duration
	grace           time.Duration
	traces          FilePathLister
	uploads         OrphanSweeper
	distributedLock lock.DistributedLock
	now             func() time.Time
}

// NewUploadSweepJob creates the sweep job. Files younger than grace are never removed.
func NewUploadSweepJob(interval, grace time.Duration, traces FilePathLister, uploads OrphanSweeper, distributedLock lock.DistributedLock) *UploadSweepJob {
	return &UploadSweepJob{
		interval:        interval,
		grace:           grace,
		traces:          traces,
		uploads:         uploads,
		distributedLock: distributedLock,
		now:             time.Now,
	}
}

func (j *UploadSweepJob) Name() string {
	return "upload-sweep"
}

func (j *UploadSweepJob) Interval() time.Duration {
	return j.interval
}

func (j *UploadSweepJob) Run(ctx context.Context) error {
	if j.traces == nil || j.uploads == nil {
		return fmt.Errorf("upload sweep not configured")
	}

	if j.distributedLock != nil {
		acquired, err := j.distributedLock.TryLock(ctx)
		if err != nil || !acquired {
			logger.DebugCtx(ctx, "another instance is running upload sweep, skipping this cycle")
			return nil
		}
		defer j.distributedLock.Unlock(ctx)
	}

	// Listed before reading the directory: a file stored after this point is
	// younger than the grace period and survives regardless.
	referenced, err := j.traces.ListFilePaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list trace file paths: %w", err)
	}

	removed, err := j.uploads.SweepOrphans(ctx, referenced, j.now().Add(-j.grace))
	if err != nil {
		return fmt.Errorf("failed to sweep uploads: %w", err)
	}
	metrics.AddSweptUploads(removed)
	if removed > 0 {
		logger.InfoCtx(ctx, "upload sweep removed %d orphaned files", removed)
	}
	return nil
}
