package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"carbontrace/pkg/engine"
	"carbontrace/pkg/interfaces"
	"carbontrace/pkg/runner"
	mysqlModel "carbontrace/pkg/store/mysql/model"
)

// statusUpdate one recorded UpdateStatus call
type statusUpdate struct {
	id         int64
	status     string
	executedAt *time.Time
	ctxErr     error
}

// mockTraceStore is an in-memory implementation of interfaces.TraceStore
type mockTraceStore struct {
	mu      sync.Mutex
	traces  map[int64]*mysqlModel.Trace
	nextID  int64
	updates []statusUpdate

	getFunc          func(ctx context.Context, id int64) (*mysqlModel.Trace, error)
	createFunc       func(ctx context.Context, trace *mysqlModel.Trace) error
	updateStatusFunc func(ctx context.Context, id int64, status string) error
}

func newMockTraceStore(traces ...*mysqlModel.Trace) *mockTraceStore {
	m := &mockTraceStore{traces: make(map[int64]*mysqlModel.Trace)}
	for _, t := range traces {
		m.traces[t.ID] = t
		if t.ID > m.nextID {
			m.nextID = t.ID
		}
	}
	return m
}

func (m *mockTraceStore) Create(ctx context.Context, trace *mysqlModel.Trace) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, trace)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	trace.ID = m.nextID
	copied := *trace
	m.traces[trace.ID] = &copied
	return nil
}

func (m *mockTraceStore) Get(ctx context.Context, id int64) (*mysqlModel.Trace, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.traces[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTraceStore) UpdateStatus(ctx context.Context, id int64, status string, executedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, statusUpdate{id: id, status: status, executedAt: executedAt, ctxErr: ctx.Err()})
	if m.updateStatusFunc != nil {
		if err := m.updateStatusFunc(ctx, id, status); err != nil {
			return err
		}
	}
	t, ok := m.traces[id]
	if !ok {
		return fmt.Errorf("trace not found: id=%d", id)
	}
	t.Status = status
	if executedAt != nil {
		t.LastExecutionTime = executedAt
	}
	return nil
}

func (m *mockTraceStore) List(ctx context.Context, offset, limit int) ([]*mysqlModel.Trace, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*mysqlModel.Trace, 0, len(m.traces))
	for _, t := range m.traces {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []*mysqlModel.Trace{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTraceStore) ListFilePaths(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.traces))
	for _, t := range m.traces {
		paths = append(paths, t.FilePath)
	}
	return paths, nil
}

func (m *mockTraceStore) status(id int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.traces[id]; ok {
		return t.Status
	}
	return ""
}

// mockResultStore is an in-memory implementation of interfaces.ResultStore
type mockResultStore struct {
	mu      sync.Mutex
	results []*mysqlModel.AnalysisResult
	nextID  int64

	replaceFunc    func(ctx context.Context, result *mysqlModel.AnalysisResult) error
	findAllFunc    func(ctx context.Context) ([]*mysqlModel.AnalysisResult, error)
	listRecentFunc func(ctx context.Context, limit int) ([]*mysqlModel.AnalysisResult, error)
}

func newMockResultStore(results ...*mysqlModel.AnalysisResult) *mockResultStore {
	m := &mockResultStore{}
	for _, r := range results {
		m.results = append(m.results, r)
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
	}
	return m
}

func (m *mockResultStore) Get(ctx context.Context, id int64) (*mysqlModel.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockResultStore) GetByTraceID(ctx context.Context, traceID int64) (*mysqlModel.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.TraceID == traceID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockResultStore) ReplaceForTrace(ctx context.Context, result *mysqlModel.AnalysisResult) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, result)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.results[:0]
	for _, r := range m.results {
		if r.TraceID != result.TraceID {
			kept = append(kept, r)
		}
	}
	m.nextID++
	result.ID = m.nextID
	m.results = append(kept, result)
	return nil
}

func (m *mockResultStore) ListRecent(ctx context.Context, limit int) ([]*mysqlModel.AnalysisResult, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]*mysqlModel.AnalysisResult(nil), m.results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AnalysisTime.After(sorted[j].AnalysisTime) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *mockResultStore) FindAll(ctx context.Context) ([]*mysqlModel.AnalysisResult, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mysqlModel.AnalysisResult(nil), m.results...), nil
}

func (m *mockResultStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// mockTransactor runs fn directly
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockAnalyzer is a mock implementation of interfaces.Analyzer
type mockAnalyzer struct {
	analyzeFunc func(ctx context.Context, req runner.Request) (*engine.Document, error)
	requests    []runner.Request
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req runner.Request) (*engine.Document, error) {
	m.requests = append(m.requests, req)
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, req)
	}
	return engine.Parse([]byte(`{"summary":{"totalEnergy":1,"totalCarbonFootprint":2,"totalRuntime":3,"avgCpuUtilization":0.5},"tasks":[]}`))
}

// mockFileStore accepts every upload
type mockFileStore struct {
	storeFunc func(ctx context.Context, fileName string, r io.Reader) (string, error)
}

func (m *mockFileStore) Store(ctx context.Context, fileName string, r io.Reader) (string, error) {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, fileName, r)
	}
	return "/uploads/stored_" + fileName, nil
}

// mockQueue records enqueued jobs
type mockQueue struct {
	jobs []*interfaces.AnalysisJob
	err  error
}

func (m *mockQueue) EnqueueAnalysis(ctx context.Context, job *interfaces.AnalysisJob) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.jobs = append(m.jobs, job)
	return fmt.Sprintf("task-%d", len(m.jobs)), nil
}

func floatPtr(v float64) *float64 {
	return &v
}
