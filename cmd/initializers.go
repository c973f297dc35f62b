package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carbontrace/app/handler"
	"carbontrace/app/router"
	"carbontrace/internal/service"
	"carbontrace/pkg/config"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"
	queueasynq "carbontrace/pkg/queue/asynq"
	"carbontrace/pkg/runner"
	"carbontrace/pkg/storage"
	mysqlstore "carbontrace/pkg/store/mysql"
	redisstore "carbontrace/pkg/store/redis"

	"github.com/gin-gonic/gin"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.InfoCtx(app.ctx, "Logging system has been closed")
		logger.Sync()
	})
	return nil
}

// initMySQL initializes MySQL and migrates the schema
func (app *Application) initMySQL() error {
	repo, err := mysqlstore.NewRepository(mysqlstore.BuildDSN(app.config.MySQL))
	if err != nil {
		return err
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	migrateCtx, cancel := context.WithTimeout(app.ctx, time.Minute)
	defer cancel()
	return repo.GetDatastore().AutoMigrate(migrateCtx)
}

// initRedis initializes Redis. Without an address the queue is disabled and
// background job locks fall back to single-instance mode.
func (app *Application) initRedis() error {
	if app.config.Redis.Addr == "" {
		logger.InfoCtx(app.ctx, "Redis not configured, async analysis and distributed locks disabled")
		return nil
	}

	client, err := redisstore.NewRedisClient(app.ctx, app.config.Redis)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initStorage initializes upload and export directories
func (app *Application) initStorage() error {
	app.uploads = storage.NewUploadStore(app.config.Storage)
	app.exports = storage.NewExportStore(app.config.Storage)
	logger.InfoCtx(app.ctx, "Uploads in %s, exports in %s", app.uploads.Dir(), app.config.Storage.ExportDir)
	return nil
}

// initServices initializes the service layer
func (app *Application) initServices() error {
	traces := app.mysqlRepo.Trace
	results := app.mysqlRepo.AnalysisResult

	engineRunner := runner.New(app.config.Analysis)
	logger.InfoCtx(app.ctx, "Analysis engine: %s %s (bundle: %q, timeout: %v)",
		app.config.Analysis.Executable, app.config.Analysis.Script, app.config.Analysis.Bundle, app.config.Analysis.Timeout)

	app.analysisService = service.NewAnalysisService(results, traces, app.mysqlRepo.GetDatastore(), app.exports)
	app.traceService = service.NewTraceService(traces, app.uploads, engineRunner, app.analysisService)
	app.dashboardService = service.NewDashboardService(results)
	app.visualizationService = service.NewVisualizationService(results)

	return nil
}

// initQueue initializes the async analysis queue when enabled
func (app *Application) initQueue() error {
	if !app.config.Queue.Enabled {
		logger.InfoCtx(app.ctx, "Analysis queue disabled, async requests will be rejected")
		return nil
	}
	if app.redisClient == nil {
		return fmt.Errorf("queue.enabled requires redis.addr")
	}

	manager, err := queueasynq.NewManager(app.config)
	if err != nil {
		return err
	}

	manager.RegisterHandler(queueasynq.TypeAnalysisRun, queueasynq.NewAnalysisHandler(
		func(ctx context.Context, job *interfaces.AnalysisJob) error {
			_, err := app.traceService.Run(ctx, job)
			return err
		},
	))
	app.traceService.SetQueue(manager)

	app.queueManager = manager
	app.registerCleanup(func() {
		manager.Close()
		logger.InfoCtx(app.ctx, "Analysis queue client has been closed")
	})

	return nil
}

// initHandlers initializes the handler layer
func (app *Application) initHandlers() error {
	app.traceHandler = handler.NewTraceHandler(app.traceService)
	app.analysisHandler = handler.NewAnalysisHandler(app.analysisService)
	app.dashboardHandler = handler.NewDashboardHandler(app.dashboardService, app.visualizationService)
	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	r := router.NewRouter(app.traceHandler, app.analysisHandler, app.dashboardHandler)

	// Set Gin mode
	if app.config.Server.Mode != "" {
		gin.SetMode(app.config.Server.Mode)
	}

	app.ginEngine = gin.New()
	app.ginEngine.MaxMultipartMemory = 8 << 20

	// Setup routes
	r.Setup(app.ginEngine)

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}
