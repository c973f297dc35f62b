package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/config"
	"carbontrace/pkg/logger"
)

// ExportStore reads and writes exported analyses in one directory
type ExportStore struct {
	dir string
}

// NewExportStore creates an export store rooted at cfg.ExportDir
func NewExportStore(cfg config.StorageConfig) *ExportStore {
	return &ExportStore{dir: cfg.ExportDir}
}

// ExportFileName returns analysis_<id>_<unixMillis>.json
func ExportFileName(resultID int64, at time.Time) string {
	return fmt.Sprintf("analysis_%d_%d.json", resultID, at.UnixMilli())
}

// Write stores data as a new export file for resultID and returns its path
func (s *ExportStore) Write(ctx context.Context, resultID int64, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(s.dir, ExportFileName(resultID, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.InfoCtx(ctx, "exported analysis result %d to %s", resultID, path)
	return path, nil
}

// Read returns the contents of an export file. Only a bare file name inside
// the export directory is accepted.
func (s *ExportStore) Read(ctx context.Context, fileName string) ([]byte, error) {
	if fileName == "" || CleanFileName(fileName) != fileName {
		return nil, apperrors.NewValidationError("fileName", "must be a file name inside the export directory")
	}

	data, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("export file", fileName)
		}
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	logger.DebugCtx(ctx, "read export file %s (%d bytes)", fileName, len(data))
	return data, nil
}
