package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDocument = `{
    "summary": {
        "totalEnergy": 12.5,
        "totalCarbonFootprint": 4.2,
        "totalRuntime": 3600,
        "avgCpuUtilization": 0.75
    },
    "tasks": [
        {"process": "train", "hardware": "A100", "energyConsumption": 10, "carbonFootprint": 3.1, "runtime": 3000, "cpu_usage": 0.9, "memory_allocated": 16},
        {"hardware": "A100"},
        "not-an-object"
    ]
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "object", input: `{"a":1}`},
		{name: "array", input: `[1,2,3]`},
		{name: "empty", input: ``, wantErr: true},
		{name: "truncated", input: `{"a":`, wantErr: true},
		{name: "plain text", input: `analysis finished`, wantErr: true},
		{name: "two values", input: `{"a":1} {"b":2}`, wantErr: true},
		{name: "trailing whitespace", input: "{\"a\":1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc.Value())
		})
	}
}

func TestDocument_RawRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(fullDocument))
	require.NoError(t, err)

	assert.NotContains(t, string(doc.Raw()), "\n")

	var original, reparsed interface{}
	require.NoError(t, json.Unmarshal([]byte(fullDocument), &original))
	require.NoError(t, json.Unmarshal(doc.Raw(), &reparsed))
	assert.Equal(t, original, reparsed)
}

func TestDocument_Summary(t *testing.T) {
	doc, err := Parse([]byte(fullDocument))
	require.NoError(t, err)

	assert.True(t, doc.HasSummary())
	summary := doc.Summary()
	require.NotNil(t, summary.TotalEnergy)
	assert.Equal(t, 12.5, *summary.TotalEnergy)
	assert.Equal(t, 4.2, *summary.TotalCarbonFootprint)
	assert.Equal(t, 3600.0, *summary.TotalRuntime)
	assert.Equal(t, 0.75, *summary.AvgCPUUtilization)
}

func TestDocument_SummaryMissingAndNonNumeric(t *testing.T) {
	doc, err := Parse([]byte(`{"summary":{"totalEnergy":"12","total_energy":5,"totalRuntime":0}}`))
	require.NoError(t, err)

	summary := doc.Summary()
	assert.Nil(t, summary.TotalEnergy, "string values are not numbers")
	assert.Nil(t, summary.TotalCarbonFootprint)
	require.NotNil(t, summary.TotalRuntime)
	assert.Equal(t, 0.0, *summary.TotalRuntime)
}

func TestDocument_Failed(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantFailed  bool
		wantMessage string
	}{
		{name: "failed with message", input: `{"status":"failed","message":"bad csv"}`, wantFailed: true, wantMessage: "bad csv"},
		{name: "failed without message", input: `{"status":"failed"}`, wantFailed: true},
		{name: "success status", input: `{"status":"success"}`},
		{name: "no status", input: `{"summary":{}}`},
		{name: "array root", input: `["failed"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			failed, message := doc.Failed()
			assert.Equal(t, tt.wantFailed, failed)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestDocument_Tasks(t *testing.T) {
	doc, err := Parse([]byte(fullDocument))
	require.NoError(t, err)

	tasks := doc.Tasks()
	require.Len(t, tasks, 2)

	assert.Equal(t, "train", tasks[0].Process)
	require.NotNil(t, tasks[0].EnergyConsumption)
	assert.Equal(t, 10.0, *tasks[0].EnergyConsumption)
	assert.Equal(t, 16.0, *tasks[0].MemoryAllocated)

	assert.Equal(t, UnknownLabel, tasks[1].Process)
	assert.Equal(t, "A100", tasks[1].Hardware)
	assert.Nil(t, tasks[1].EnergyConsumption)
	assert.Nil(t, tasks[1].Runtime)
}

func TestDocument_TasksAbsent(t *testing.T) {
	for _, input := range []string{`{}`, `{"tasks":{}}`, `{"tasks":null}`, `[]`} {
		doc, err := Parse([]byte(input))
		require.NoError(t, err)
		assert.NotNil(t, doc.Tasks(), input)
		assert.Empty(t, doc.Tasks(), input)
	}
}

func TestSummary_ExceedsBound(t *testing.T) {
	big, small := 2e9, 10.0
	assert.True(t, Summary{TotalEnergy: &big}.ExceedsBound(1e9))
	assert.True(t, Summary{TotalCarbonFootprint: &big}.ExceedsBound(1e9))
	assert.False(t, Summary{TotalEnergy: &small}.ExceedsBound(1e9))
	assert.False(t, Summary{}.ExceedsBound(1e9))
}

func TestValues(t *testing.T) {
	assert.Equal(t, 1.5, Number(1.5, 0))
	assert.Equal(t, 2.0, Number(json.Number("2"), 0))
	assert.Equal(t, 7.0, Number("1.5", 7))
	assert.Equal(t, 7.0, Number(nil, 7))
	assert.Equal(t, 3, Int(3.9, 0))
	assert.Equal(t, -1, Int(true, -1))
	assert.Equal(t, "x", String("x", "d"))
	assert.Equal(t, "d", String(1.0, "d"))
	assert.Equal(t, "node-1", Label("node-1"))
	assert.Equal(t, "4", Label(4.0))
	assert.Equal(t, "true", Label(true))
	assert.Equal(t, `["a"]`, Label([]interface{}{"a"}))
	assert.Equal(t, "", Label(nil))
	assert.Equal(t, "12", Label(json.Number("12")))
}

func TestInt_Range(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int
	}{
		{name: "exact large integer", in: json.Number("9007199254740993"), want: 9007199254740993},
		{name: "fractional number", in: json.Number("4.7"), want: 4},
		{name: "negative", in: json.Number("-3"), want: -3},
		{name: "above int range", in: json.Number("1e300"), want: -1},
		{name: "below int range", in: -1e300, want: -1},
		{name: "integer overflow", in: json.Number("99999999999999999999"), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Int(tt.in, -1))
		})
	}
}

func TestParse_KeepsIntegerPrecision(t *testing.T) {
	doc, err := Parse([]byte(`{"processData":[{"tasks":9007199254740993}]}`))
	require.NoError(t, err)

	v, ok := doc.Field(KeyProcessData)
	require.True(t, ok)
	entry := Object(Array(v)[0])
	assert.Equal(t, json.Number("9007199254740993"), entry["tasks"])
	assert.Equal(t, 9007199254740993, Int(entry["tasks"], 0))
}
