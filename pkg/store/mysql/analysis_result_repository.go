package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AnalysisResultRepository handles analysis result persistence in MySQL
type AnalysisResultRepository struct {
	ds *Datastore
}

// NewAnalysisResultRepository creates a new analysis result repository
func NewAnalysisResultRepository(ds *Datastore) *AnalysisResultRepository {
	return &AnalysisResultRepository{ds: ds}
}

// Get retrieves a result by ID with its trace, nil when it does not exist
func (r *AnalysisResultRepository) Get(ctx context.Context, id int64) (*AnalysisResult, error) {
	var result AnalysisResult
	err := r.ds.DB(ctx).Preload("Trace").Where("id = ?", id).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	return &result, nil
}

// GetByTraceID retrieves the result owned by a trace, nil when it does not exist
func (r *AnalysisResultRepository) GetByTraceID(ctx context.Context, traceID int64) (*AnalysisResult, error) {
	var result AnalysisResult
	err := r.ds.DB(ctx).Preload("Trace").Where("trace_id = ?", traceID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis result by trace: %w", err)
	}
	return &result, nil
}

// ReplaceForTrace deletes any existing result of result.TraceID and inserts result,
// in one transaction so a trace never owns more than one result
func (r *AnalysisResultRepository) ReplaceForTrace(ctx context.Context, result *AnalysisResult) error {
	return r.ds.ExecTx(ctx, func(ctx context.Context) error {
		err := r.ds.DB(ctx).Where("trace_id = ?", result.TraceID).Delete(&AnalysisResult{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete previous analysis result: %w", err)
		}
		if err := r.ds.DB(ctx).Omit("Trace").Create(result).Error; err != nil {
			return fmt.Errorf("failed to create analysis result: %w", err)
		}
		return nil
	})
}

// ListRecent returns up to limit results ordered by analysis time descending
func (r *AnalysisResultRepository) ListRecent(ctx context.Context, limit int) ([]*AnalysisResult, error) {
	var results []*AnalysisResult
	err := r.ds.DB(ctx).
		Preload("Trace").
		Order("analysis_time DESC, id DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent analysis results: %w", err)
	}
	return results, nil
}

// FindAll returns every stored result in insertion order
func (r *AnalysisResultRepository) FindAll(ctx context.Context) ([]*AnalysisResult, error) {
	var results []*AnalysisResult
	if err := r.ds.DB(ctx).Order("id ASC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	return results, nil
}
