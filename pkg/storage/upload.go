// Package storage places uploaded traces and exported analyses on disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/config"
	"carbontrace/pkg/logger"

	"github.com/google/uuid"
)

const traceExtension = ".csv"

var errTooLarge = errors.New("upload exceeds size limit")

// IsTraceFile reports whether name carries the trace file extension
func IsTraceFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), traceExtension)
}

// CleanFileName strips any directory part a client sent with the name
func CleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// UploadStore writes uploaded traces under one directory
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore creates an upload store rooted at cfg.UploadDir
func NewUploadStore(cfg config.StorageConfig) *UploadStore {
	return &UploadStore{
		dir:      cfg.UploadDir,
		maxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}
}

// Dir returns the upload directory
func (s *UploadStore) Dir() string {
	return s.dir
}

// Store copies r to a new file named after fileName and returns its absolute path.
// Names without the .csv extension are rejected before anything is written.
func (s *UploadStore) Store(ctx context.Context, fileName string, r io.Reader) (string, error) {
	clean := CleanFileName(fileName)
	if clean == "" {
		return "", apperrors.NewValidationError("file", "file name is empty")
	}
	if !IsTraceFile(clean) {
		return "", apperrors.NewValidationError("file", fmt.Sprintf("invalid file type %q, only CSV files are allowed", clean))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	target, err := filepath.Abs(filepath.Join(s.dir, uuid.NewString()+"_"+clean))
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload path: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	written, err := s.copyLimited(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		if errors.Is(err, errTooLarge) {
			return "", apperrors.NewValidationError("file", fmt.Sprintf("file exceeds %d MB", s.maxBytes/(1024*1024)))
		}
		return "", fmt.Errorf("failed to store file %s: %w", clean, err)
	}

	logger.InfoCtx(ctx, "stored trace file %s (%d bytes) at %s", clean, written, target)
	return target, nil
}

func (s *UploadStore) copyLimited(dst io.Writer, src io.Reader) (int64, error) {
	if s.maxBytes <= 0 {
		return io.Copy(dst, src)
	}
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return written, err
	}
	if written > s.maxBytes {
		return written, errTooLarge
	}
	return written, nil
}

// SweepOrphans removes files in the upload directory that are older than cutoff
// and not listed in referenced (absolute paths). It returns the number removed.
func (s *UploadStore) SweepOrphans(ctx context.Context, referenced []string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		if abs, err := filepath.Abs(p); err == nil {
			keep[abs] = struct{}{}
		}
	}

	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}

		path, err := filepath.Abs(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		if _, ok := keep[path]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			logger.WarnCtx(ctx, "failed to remove orphaned upload %s: %v", path, err)
			continue
		}
		logger.InfoCtx(ctx, "removed orphaned upload %s", path)
		removed++
	}

	return removed, nil
}
