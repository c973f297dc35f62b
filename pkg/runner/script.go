package runner

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"carbontrace/pkg/logger"
)

// ScriptSource yields a filesystem path to the analysis script for one run.
// release must be called once the process has exited.
type ScriptSource interface {
	Materialize(ctx context.Context) (scriptPath string, release func(), err error)
}

// FileScript a script that already sits on disk
type FileScript struct {
	Path string
}

// Materialize returns the absolute script path; release is a no-op
func (s FileScript) Materialize(ctx context.Context) (string, func(), error) {
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("analysis script not found: %s: %w", s.Path, err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("analysis script is a directory: %s", s.Path)
	}
	logger.DebugCtx(ctx, "using script from filesystem: %s", abs)
	return abs, func() {}, nil
}

// FSScript a script packaged inside an fs.FS (zip archive, embed.FS).
// Each run extracts it to a fresh temporary file that release deletes.
type FSScript struct {
	FS    fs.FS
	Entry string
}

// Materialize copies the entry to a temporary file
func (s FSScript) Materialize(ctx context.Context) (string, func(), error) {
	src, err := s.FS.Open(s.Entry)
	if err != nil {
		return "", nil, fmt.Errorf("analysis script not found in archive: %s: %w", s.Entry, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "analysis-*"+path.Ext(s.Entry))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary script file: %w", err)
	}
	release := func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			logger.WarnCtx(ctx, "could not delete temporary script file %s: %v", tmp.Name(), err)
			return
		}
		logger.DebugCtx(ctx, "deleted temporary script file: %s", tmp.Name())
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		release()
		return "", nil, fmt.Errorf("failed to extract analysis script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		release()
		return "", nil, fmt.Errorf("failed to extract analysis script: %w", err)
	}

	logger.DebugCtx(ctx, "extracted script %s to temporary file: %s", s.Entry, tmp.Name())
	return tmp.Name(), release, nil
}

// ArchiveScript a script entry inside a zip archive on disk
type ArchiveScript struct {
	Archive string
	Entry   string
}

// Materialize opens the archive and extracts the entry to a temporary file
func (s ArchiveScript) Materialize(ctx context.Context) (string, func(), error) {
	reader, err := zip.OpenReader(s.Archive)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open script archive %s: %w", s.Archive, err)
	}
	defer reader.Close()

	return FSScript{FS: reader, Entry: filepath.ToSlash(s.Entry)}.Materialize(ctx)
}
