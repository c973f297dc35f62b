package interfaces

import (
	"context"
	"time"

	"carbontrace/pkg/engine"
	"carbontrace/pkg/runner"
	mysqlModel "carbontrace/pkg/store/mysql/model"
)

// TraceStore persistence of uploaded traces. Get returns nil, nil for unknown ids.
type TraceStore interface {
	Create(ctx context.Context, trace *mysqlModel.Trace) error
	Get(ctx context.Context, id int64) (*mysqlModel.Trace, error)
	UpdateStatus(ctx context.Context, id int64, status string, executedAt *time.Time) error
	List(ctx context.Context, offset, limit int) ([]*mysqlModel.Trace, int64, error)
	ListFilePaths(ctx context.Context) ([]string, error)
}

// ResultStore persistence of analysis results. Lookups return nil, nil for unknown ids.
type ResultStore interface {
	Get(ctx context.Context, id int64) (*mysqlModel.AnalysisResult, error)
	GetByTraceID(ctx context.Context, traceID int64) (*mysqlModel.AnalysisResult, error)
	// ReplaceForTrace atomically swaps the trace's previous result for result
	ReplaceForTrace(ctx context.Context, result *mysqlModel.AnalysisResult) error
	ListRecent(ctx context.Context, limit int) ([]*mysqlModel.AnalysisResult, error)
	FindAll(ctx context.Context) ([]*mysqlModel.AnalysisResult, error)
}

// Transactor runs fn in one transaction; stores called with the ctx passed to fn join it
type Transactor interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Analyzer runs the analysis engine on one trace file
type Analyzer interface {
	Analyze(ctx context.Context, req runner.Request) (*engine.Document, error)
}
