package main

import (
	"github.com/go-redis/redis/v8"

	"carbontrace/internal/jobs"
	"carbontrace/pkg/lock"
	"carbontrace/pkg/logger"
)

func (app *Application) initJobs() error {
	if app.mysqlRepo == nil || app.uploads == nil {
		logger.WarnCtx(app.ctx, "Storage not fully initialized yet, skipping background task registration")
		return nil
	}

	manager := jobs.NewManager(app.ctx)

	// Without Redis the lock degrades to single-instance mode
	var redisClient *redis.Client
	if app.redisClient != nil {
		redisClient = app.redisClient.GetClient()
	}

	sweepLock := lock.NewRedisDistributedLock(redisClient, jobs.UploadSweepLockKey)
	manager.Register(jobs.NewUploadSweepJob(
		app.config.Jobs.UploadSweepInterval,
		app.config.Jobs.UploadGracePeriod,
		app.mysqlRepo.Trace,
		app.uploads,
		sweepLock,
	))

	if app.queueManager != nil {
		manager.Register(jobs.NewQueueStatsJob(app.config.Jobs.QueueStatsInterval, app.queueManager))
	}

	app.jobsManager = manager
	return nil
}
