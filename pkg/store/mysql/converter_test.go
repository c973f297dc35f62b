package mysql

import (
	"testing"
	"time"

	"carbontrace/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTraceDomain(t *testing.T) {
	assert.Nil(t, ToTraceDomain(nil))

	hw := "A100"
	now := time.Now()
	trace := ToTraceDomain(&Trace{ID: 3, FileName: "t.csv", FilePath: "/u/t.csv", UploadTime: now, Status: "ANALYZED", HardwareConfig: &hw})
	require.NotNil(t, trace)
	assert.Equal(t, int64(3), trace.ID)
	assert.Equal(t, constants.TraceStatusAnalyzed, trace.Status)
	assert.Equal(t, "A100", trace.HardwareConfig)

	trace = ToTraceDomain(&Trace{ID: 4})
	assert.Empty(t, trace.HardwareConfig)
}

func TestToAnalysisResultDomain(t *testing.T) {
	assert.Nil(t, ToAnalysisResultDomain(nil))

	energy := 1.5
	result := ToAnalysisResultDomain(&AnalysisResult{
		ID:          9,
		TraceID:     3,
		TotalEnergy: &energy,
		RawData:     RawJSON(`{"summary":{}}`),
		Trace:       &Trace{FileName: "t.csv"},
	})
	require.NotNil(t, result)
	assert.Equal(t, "t.csv", result.FileName)
	assert.Equal(t, &energy, result.TotalEnergy)
	assert.JSONEq(t, `{"summary":{}}`, string(result.RawData))

	summary := ToAnalysisSummary(&AnalysisResult{ID: 9, TotalEnergy: &energy})
	assert.Empty(t, summary.FileName)
	assert.Equal(t, int64(9), summary.ID)
}
