package service

import (
	"context"
	"io"
)

// TraceFileStore places uploaded trace files on disk
type TraceFileStore interface {
	Store(ctx context.Context, fileName string, r io.Reader) (string, error)
}

// ExportFileStore reads and writes exported analyses
type ExportFileStore interface {
	Write(ctx context.Context, resultID int64, data []byte) (string, error)
	Read(ctx context.Context, fileName string) ([]byte, error)
}
