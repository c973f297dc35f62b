package asynq

import (
	"context"
	"encoding/json"
	"fmt"

	"carbontrace/pkg/config"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeAnalysisRun = "analysis:run"
	queueName       = "default"
)

// Manager queue manager
type Manager struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	inspector *asynq.Inspector
	cfg       config.QueueConfig
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("queue requires redis.addr")
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				queueName: 10,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.ErrorCtx(ctx, "queued analysis failed, type: %s, error: %v", task.Type(), err)
			}),
		},
	)

	return &Manager{
		client:    asynq.NewClient(redisOpt),
		server:    server,
		mux:       asynq.NewServeMux(),
		inspector: asynq.NewInspector(redisOpt),
		cfg:       cfg.Queue,
	}, nil
}

// NewAnalysisTask builds the queue task for job
func NewAnalysisTask(job *interfaces.AnalysisJob) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis job: %w", err)
	}
	return asynq.NewTask(TypeAnalysisRun, payload), nil
}

// EnqueueAnalysis enqueues an analysis job and returns its task id.
// Jobs are never retried by the queue; a failed run is re-triggered by the user.
func (m *Manager) EnqueueAnalysis(ctx context.Context, job *interfaces.AnalysisJob) (string, error) {
	task, err := NewAnalysisTask(job)
	if err != nil {
		return "", err
	}

	opts := []asynq.Option{
		asynq.TaskID(uuid.NewString()),
		asynq.Queue(queueName),
		asynq.Timeout(m.cfg.TaskTimeout),
		asynq.MaxRetry(0),
	}

	info, err := m.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analysis: %w", err)
	}

	logger.InfoCtx(ctx, "analysis enqueued, task_id: %s, trace_id: %d, action: %s, queue: %s",
		info.ID, job.TraceID, job.Action, info.Queue)
	return info.ID, nil
}

// GetPendingCount retrieves the number of analyses waiting in the queue
func (m *Manager) GetPendingCount() (int, error) {
	stats, err := m.inspector.GetQueueInfo(queueName)
	if err != nil {
		return 0, err
	}
	return stats.Pending, nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	if err := m.inspector.Close(); err != nil {
		logger.WarnCtx(context.Background(), "failed to close queue inspector: %v", err)
	}
	return m.client.Close()
}
