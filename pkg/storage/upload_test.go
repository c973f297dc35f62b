package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "trace.csv", want: "trace.csv"},
		{in: "dir/trace.csv", want: "trace.csv"},
		{in: "../../etc/trace.csv", want: "trace.csv"},
		{in: `C:\Users\me\trace.csv`, want: "trace.csv"},
		{in: "", want: ""},
		{in: "/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFileName(tt.in))
		})
	}
}

func TestIsTraceFile(t *testing.T) {
	assert.True(t, IsTraceFile("a.csv"))
	assert.True(t, IsTraceFile("A.CSV"))
	assert.False(t, IsTraceFile("a.csv.exe"))
	assert.False(t, IsTraceFile("a.json"))
	assert.False(t, IsTraceFile("csv"))
}

func TestUploadStore_Store(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(config.StorageConfig{UploadDir: dir, MaxUploadMB: 1})

	path, err := store.Store(context.Background(), "../trace.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_trace.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestUploadStore_SameNameDoesNotOverwrite(t *testing.T) {
	store := NewUploadStore(config.StorageConfig{UploadDir: t.TempDir()})

	first, err := store.Store(context.Background(), "trace.csv", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := store.Store(context.Background(), "trace.csv", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestUploadStore_RejectsNonCSV(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(config.StorageConfig{UploadDir: dir})

	_, err := store.Store(context.Background(), "notes.txt", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written for rejected files")
}

func TestUploadStore_RejectsOversized(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(config.StorageConfig{UploadDir: dir, MaxUploadMB: 1})

	big := strings.NewReader(strings.Repeat("x", 1024*1024+1))
	_, err := store.Store(context.Background(), "big.csv", big)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial file is removed")
}

func TestUploadStore_SweepOrphans(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(config.StorageConfig{UploadDir: dir})

	old := time.Now().Add(-48 * time.Hour)
	write := func(name string, mtime time.Time) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(p, mtime, mtime))
		return p
	}

	referenced := write("kept.csv", old)
	orphan := write("orphan.csv", old)
	fresh := write("fresh.csv", time.Now())

	removed, err := store.SweepOrphans(context.Background(), []string{referenced}, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.FileExists(t, referenced)
	assert.FileExists(t, fresh)
	assert.NoFileExists(t, orphan)
}

func TestUploadStore_SweepMissingDir(t *testing.T) {
	store := NewUploadStore(config.StorageConfig{UploadDir: filepath.Join(t.TempDir(), "missing")})
	removed, err := store.SweepOrphans(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
