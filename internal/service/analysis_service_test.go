package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/config"
	"carbontrace/pkg/constants"
	"carbontrace/pkg/engine"
	"carbontrace/pkg/storage"
	mysqlModel "carbontrace/pkg/store/mysql/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *engine.Document {
	t.Helper()
	doc, err := engine.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestBuildResult(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		raw        string
		wantEnergy *float64
		wantCarbon *float64
		wantCPU    *float64
	}{
		{
			name:       "full summary",
			raw:        `{"summary":{"totalEnergy":12.5,"totalCarbonFootprint":4.2,"totalRuntime":60,"avgCpuUtilization":0.3}}`,
			wantEnergy: floatPtr(12.5),
			wantCarbon: floatPtr(4.2),
			wantCPU:    floatPtr(0.3),
		},
		{
			name:       "missing keys default to zero",
			raw:        `{"summary":{"totalEnergy":7}}`,
			wantEnergy: floatPtr(7),
			wantCarbon: floatPtr(0),
			wantCPU:    floatPtr(0),
		},
		{
			name:       "non-numeric values default to zero",
			raw:        `{"summary":{"totalEnergy":"7","totalCarbonFootprint":null}}`,
			wantEnergy: floatPtr(0),
			wantCarbon: floatPtr(0),
			wantCPU:    floatPtr(0),
		},
		{
			name: "no summary object",
			raw:  `{"tasks":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildResult(9, mustParse(t, tt.raw), at)
			assert.Equal(t, int64(9), result.TraceID)
			assert.Equal(t, at, result.AnalysisTime)
			assert.Equal(t, tt.wantEnergy, result.TotalEnergy)
			assert.Equal(t, tt.wantCarbon, result.TotalCarbonFootprint)
			assert.Equal(t, tt.wantCPU, result.AvgCPUUtilization)
		})
	}
}

func TestBuildResult_RawDataRoundTrip(t *testing.T) {
	raw := `{
	  "summary": {"totalEnergy": 1.25},
	  "tasks": [{"process": "p", "energyConsumption": 3}],
	  "hostData": {"hosts": ["h1"], "processes": {"h1": "p"}},
	  "extra": {"nested": [1, "two", null, true]}
	}`
	result := BuildResult(1, mustParse(t, raw), time.Now())

	var original, stored interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &original))
	require.NoError(t, json.Unmarshal(result.RawData, &stored))
	assert.Equal(t, original, stored)
}

// Property: a present summary value is never replaced by the default
func TestProperty_BuildResultKeepsPresentValues(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("summary values survive ingestion", prop.ForAll(
		func(energy, carbon, runtime, cpu float64) bool {
			raw := fmt.Sprintf(`{"summary":{"totalEnergy":%v,"totalCarbonFootprint":%v,"totalRuntime":%v,"avgCpuUtilization":%v}}`,
				energy, carbon, runtime, cpu)
			doc, err := engine.Parse([]byte(raw))
			if err != nil {
				return false
			}
			result := BuildResult(1, doc, time.Now())
			return *result.TotalEnergy == energy &&
				*result.TotalCarbonFootprint == carbon &&
				*result.TotalRuntime == runtime &&
				*result.AvgCPUUtilization == cpu
		},
		gen.Float64Range(-1e12, 1e12),
		gen.Float64Range(-1e12, 1e12),
		gen.Float64Range(0, 1e7),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}

func TestAnalysisService_IngestReplacesPreviousResult(t *testing.T) {
	results := newMockResultStore(&mysqlModel.AnalysisResult{ID: 1, TraceID: 5, RawData: mysqlModel.RawJSON(`{}`)})
	svc := NewAnalysisService(results, newMockTraceStore(), &mockTransactor{}, nil)
	trace := &mysqlModel.Trace{ID: 5, FileName: "t.csv"}

	result, err := svc.Ingest(context.Background(), trace, mustParse(t, `{"summary":{"totalEnergy":3}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ID)
	assert.Equal(t, 1, results.count())

	stored, err := results.GetByTraceID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, *stored.TotalEnergy)
}

func TestAnalysisService_IngestStoreError(t *testing.T) {
	results := newMockResultStore()
	results.replaceFunc = func(ctx context.Context, result *mysqlModel.AnalysisResult) error {
		return errors.New("db down")
	}
	svc := NewAnalysisService(results, newMockTraceStore(), &mockTransactor{}, nil)

	_, err := svc.Ingest(context.Background(), &mysqlModel.Trace{ID: 1}, mustParse(t, `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestAnalysisService_GetResult(t *testing.T) {
	results := newMockResultStore(&mysqlModel.AnalysisResult{
		ID:      3,
		TraceID: 7,
		RawData: mysqlModel.RawJSON(`{"a":1}`),
		Trace:   &mysqlModel.Trace{ID: 7, FileName: "t.csv"},
	})
	svc := NewAnalysisService(results, newMockTraceStore(), &mockTransactor{}, nil)

	result, err := svc.GetResult(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "t.csv", result.FileName)

	result, err = svc.GetResultByTrace(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.ID)

	_, err = svc.GetResult(context.Background(), 99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "not found with id: 99")

	_, err = svc.GetResultByTrace(context.Background(), 99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAnalysisService_ExportThenImport(t *testing.T) {
	exportDir := t.TempDir()
	exports := storage.NewExportStore(config.StorageConfig{ExportDir: exportDir})
	raw := `{"summary":{"totalEnergy":12,"totalCarbonFootprint":3,"totalRuntime":40,"avgCpuUtilization":0.2},"tasks":[{"process":"a","energyConsumption":12}]}`

	traces := newMockTraceStore(&mysqlModel.Trace{ID: 1, FileName: "orig.csv", Status: "ANALYZED"})
	results := newMockResultStore(&mysqlModel.AnalysisResult{
		ID:           1,
		TraceID:      1,
		AnalysisTime: time.Now(),
		TotalEnergy:  floatPtr(12),
		RawData:      mysqlModel.RawJSON(raw),
		Trace:        &mysqlModel.Trace{ID: 1, FileName: "orig.csv"},
	})
	tx := &mockTransactor{}
	svc := NewAnalysisService(results, traces, tx, exports)
	ctx := context.Background()

	exported, err := svc.Export(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, exportDir, filepath.Dir(exported.FilePath))
	assert.FileExists(t, exported.FilePath)

	data, err := os.ReadFile(exported.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fileName": "orig.csv"`)

	imported, err := svc.Import(ctx, filepath.Base(exported.FilePath))
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.NotEqual(t, int64(1), imported.ID)
	assert.NotEqual(t, int64(1), imported.TraceID)
	assert.Equal(t, "orig.csv", imported.FileName)
	assert.Equal(t, 12.0, *imported.TotalEnergy)
	assert.Equal(t, 0.2, *imported.AvgCPUUtilization)
	assert.JSONEq(t, raw, string(imported.RawData))

	placeholder, err := traces.Get(ctx, imported.TraceID)
	require.NoError(t, err)
	assert.Equal(t, constants.TraceStatusAnalyzed.String(), placeholder.Status)
	assert.Empty(t, placeholder.FilePath, "imported traces carry no trace file")
	assert.Equal(t, 2, results.count())
}

func TestAnalysisService_ExportNotFound(t *testing.T) {
	exports := storage.NewExportStore(config.StorageConfig{ExportDir: t.TempDir()})
	svc := NewAnalysisService(newMockResultStore(), newMockTraceStore(), &mockTransactor{}, exports)

	_, err := svc.Export(context.Background(), 42)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAnalysisService_ImportRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	exports := storage.NewExportStore(config.StorageConfig{ExportDir: dir})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noraw.json"), []byte(`{"id":1}`), 0o644))

	results := newMockResultStore()
	svc := NewAnalysisService(results, newMockTraceStore(), &mockTransactor{}, exports)
	ctx := context.Background()

	_, err := svc.Import(ctx, "garbage.json")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Import(ctx, "noraw.json")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Import(ctx, "../escape.json")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Import(ctx, "missing.json")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.Zero(t, results.count())
}
