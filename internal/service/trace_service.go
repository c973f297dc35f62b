package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"carbontrace/internal/model"
	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/constants"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/logger"
	"carbontrace/pkg/metrics"
	"carbontrace/pkg/runner"
	"carbontrace/pkg/storage"
	"carbontrace/pkg/store/mysql"
	mysqlModel "carbontrace/pkg/store/mysql/model"
)

// ErrQueueDisabled returned when async analysis is requested without a queue
var ErrQueueDisabled = errors.New("async analysis queue is not enabled")

// TraceService owns the trace lifecycle: upload, then analyze or execute
type TraceService struct {
	traces   interfaces.TraceStore
	files    TraceFileStore
	analyzer interfaces.Analyzer
	analysis *AnalysisService
	queue    interfaces.AnalysisQueue
	now      func() time.Time
}

// NewTraceService creates a new trace service
func NewTraceService(traces interfaces.TraceStore, files TraceFileStore, analyzer interfaces.Analyzer, analysis *AnalysisService) *TraceService {
	return &TraceService{
		traces:   traces,
		files:    files,
		analyzer: analyzer,
		analysis: analysis,
		now:      time.Now,
	}
}

// SetQueue enables asynchronous analysis
func (s *TraceService) SetQueue(queue interfaces.AnalysisQueue) {
	s.queue = queue
}

// Upload stores the file and records an UPLOADED trace
func (s *TraceService) Upload(ctx context.Context, fileName string, r io.Reader, hardware string) (trace *model.Trace, err error) {
	defer func() { metrics.ObserveUpload(err) }()

	path, err := s.files.Store(ctx, fileName, r)
	if err != nil {
		return nil, err
	}

	record := &mysqlModel.Trace{
		FileName:   storage.CleanFileName(fileName),
		FilePath:   path,
		UploadTime: s.now(),
		Status:     constants.TraceStatusUploaded.String(),
	}
	if hw := strings.TrimSpace(hardware); hw != "" {
		record.HardwareConfig = &hw
	}

	if err = s.traces.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save trace metadata: %w", err)
	}

	logger.InfoCtx(ctx, "trace uploaded, trace_id: %d, file: %s", record.ID, record.FileName)
	return mysql.ToTraceDomain(record), nil
}

// GetTrace retrieves a trace by ID
func (s *TraceService) GetTrace(ctx context.Context, id int64) (*model.Trace, error) {
	trace, err := s.getTrace(ctx, id)
	if err != nil {
		return nil, err
	}
	return mysql.ToTraceDomain(trace), nil
}

// ListTraces lists traces newest first; page starts at 1
func (s *TraceService) ListTraces(ctx context.Context, page, size int) (*model.TraceListResponse, error) {
	if page < 1 {
		page = 1
	}
	size = clampLimit(size, 20)

	traces, total, err := s.traces.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, err
	}

	resp := &model.TraceListResponse{
		Traces: make([]*model.Trace, 0, len(traces)),
		Total:  total,
		Page:   page,
		Size:   size,
	}
	for _, t := range traces {
		resp.Traces = append(resp.Traces, mysql.ToTraceDomain(t))
	}
	return resp, nil
}

// Analyze runs the engine on the trace: ANALYZED on success, ANALYSIS_FAILED otherwise
func (s *TraceService) Analyze(ctx context.Context, id int64) (*model.AnalysisResult, error) {
	return s.Run(ctx, &interfaces.AnalysisJob{TraceID: id, Action: constants.ActionAnalyze})
}

// Execute runs the engine with an optional hardware override: EXECUTED on
// success, FAILED otherwise. The last execution time is stamped on success.
func (s *TraceService) Execute(ctx context.Context, id int64, hardware string) (*model.AnalysisResult, error) {
	return s.Run(ctx, &interfaces.AnalysisJob{TraceID: id, Action: constants.ActionExecute, Hardware: hardware})
}

// Run performs one lifecycle transition. Any failure after the engine is
// started is recorded as the action's failure status before it is returned.
func (s *TraceService) Run(ctx context.Context, job *interfaces.AnalysisJob) (*model.AnalysisResult, error) {
	if !job.Action.Valid() {
		return nil, apperrors.NewValidationError("action", fmt.Sprintf("unknown action %q", job.Action))
	}

	trace, err := s.getRunnableTrace(ctx, job.TraceID)
	if err != nil {
		return nil, err
	}

	if status := constants.TraceStatus(trace.Status); status.IsTerminal() {
		logger.InfoCtx(ctx, "trace %d is %s, the previous result will be replaced", trace.ID, status)
	}

	hardware := strings.TrimSpace(job.Hardware)
	if hardware == "" && trace.HardwareConfig != nil {
		hardware = *trace.HardwareConfig
	}

	logger.InfoCtx(ctx, "starting %s for trace %d", job.Action, trace.ID)

	start := time.Now()
	result, err := s.analyzeAndStore(ctx, trace, hardware)
	metrics.ObserveAnalysis(string(job.Action), start, err)
	if err != nil {
		s.recordFailure(ctx, trace.ID, job.Action, err)
		return nil, err
	}

	var executedAt *time.Time
	if job.Action == constants.ActionExecute {
		now := s.now()
		executedAt = &now
	}

	status := job.Action.SuccessStatus()
	if err := s.traces.UpdateStatus(ctx, trace.ID, status.String(), executedAt); err != nil {
		err = fmt.Errorf("failed to update trace status: %w", err)
		logger.ErrorCtx(ctx, "result %d saved but trace %d could not be marked %s", result.ID, trace.ID, status)
		s.recordFailure(ctx, trace.ID, job.Action, err)
		return nil, err
	}

	logger.InfoCtx(ctx, "%s completed for trace %d, result_id: %d, status: %s", job.Action, trace.ID, result.ID, status)
	return mysql.ToAnalysisResultDomain(result), nil
}

// Enqueue validates the trace and hands the job to the async queue
func (s *TraceService) Enqueue(ctx context.Context, job *interfaces.AnalysisJob) (*model.AnalysisAccepted, error) {
	if s.queue == nil {
		return nil, ErrQueueDisabled
	}
	if !job.Action.Valid() {
		return nil, apperrors.NewValidationError("action", fmt.Sprintf("unknown action %q", job.Action))
	}

	if _, err := s.getRunnableTrace(ctx, job.TraceID); err != nil {
		return nil, err
	}

	taskID, err := s.queue.EnqueueAnalysis(ctx, job)
	if err != nil {
		return nil, err
	}

	return &model.AnalysisAccepted{
		TraceID: job.TraceID,
		Action:  job.Action,
		TaskID:  taskID,
	}, nil
}

func (s *TraceService) analyzeAndStore(ctx context.Context, trace *mysqlModel.Trace, hardware string) (*mysqlModel.AnalysisResult, error) {
	doc, err := s.analyzer.Analyze(ctx, runner.Request{TraceFile: trace.FilePath, Hardware: hardware})
	if err != nil {
		return nil, err
	}
	return s.analysis.Ingest(ctx, trace, doc)
}

// recordFailure persists the failure status even when ctx is already cancelled
func (s *TraceService) recordFailure(ctx context.Context, id int64, action constants.AnalysisAction, cause error) {
	logger.ErrorCtx(ctx, "%s failed for trace %d: %v", action, id, cause)

	status := action.FailureStatus()
	if err := s.traces.UpdateStatus(context.WithoutCancel(ctx), id, status.String(), nil); err != nil {
		logger.ErrorCtx(ctx, "failed to record status %s for trace %d: %v", status, id, err)
	}
}

// getRunnableTrace loads a trace the engine can run on: a stored CSV upload
func (s *TraceService) getRunnableTrace(ctx context.Context, id int64) (*mysqlModel.Trace, error) {
	trace, err := s.getTrace(ctx, id)
	if err != nil {
		return nil, err
	}
	if !storage.IsTraceFile(trace.FileName) {
		return nil, apperrors.NewValidationError("file", "only CSV trace files can be analyzed")
	}
	if trace.FilePath == "" {
		return nil, apperrors.NewValidationError("file", "trace was imported without its trace file and cannot be re-run")
	}
	return trace, nil
}

func (s *TraceService) getTrace(ctx context.Context, id int64) (*mysqlModel.Trace, error) {
	trace, err := s.traces.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trace: %w", err)
	}
	if trace == nil {
		return nil, apperrors.NewNotFoundError(entityTrace, id)
	}
	return trace, nil
}
