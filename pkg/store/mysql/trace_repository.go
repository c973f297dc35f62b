package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TraceRepository handles trace persistence in MySQL
type TraceRepository struct {
	ds *Datastore
}

// NewTraceRepository creates a new trace repository
func NewTraceRepository(ds *Datastore) *TraceRepository {
	return &TraceRepository{ds: ds}
}

// Create creates a new trace; ID is filled in on success
func (r *TraceRepository) Create(ctx context.Context, trace *Trace) error {
	if err := r.ds.DB(ctx).Create(trace).Error; err != nil {
		return fmt.Errorf("failed to create trace: %w", err)
	}
	return nil
}

// Get retrieves a trace by ID, nil when it does not exist
func (r *TraceRepository) Get(ctx context.Context, id int64) (*Trace, error) {
	var trace Trace
	err := r.ds.DB(ctx).Where("id = ?", id).First(&trace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trace: %w", err)
	}
	return &trace, nil
}

// UpdateStatus sets the status and, when executedAt is non-nil, the last execution time
func (r *TraceRepository) UpdateStatus(ctx context.Context, id int64, status string, executedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if executedAt != nil {
		updates["last_execution_time"] = *executedAt
	}

	result := r.ds.DB(ctx).Model(&Trace{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update trace status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("trace not found: id=%d", id)
	}
	return nil
}

// List returns traces newest first, with the total count
func (r *TraceRepository) List(ctx context.Context, offset, limit int) ([]*Trace, int64, error) {
	var total int64
	if err := r.ds.DB(ctx).Model(&Trace{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count traces: %w", err)
	}

	var traces []*Trace
	err := r.ds.DB(ctx).
		Order("upload_time DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&traces).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list traces: %w", err)
	}
	return traces, total, nil
}

// ListFilePaths returns the stored path of every trace that has one;
// imported traces have none
func (r *TraceRepository) ListFilePaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := r.ds.DB(ctx).Model(&Trace{}).Where("file_path <> ?", "").Pluck("file_path", &paths).Error; err != nil {
		return nil, fmt.Errorf("failed to list trace file paths: %w", err)
	}
	return paths, nil
}
