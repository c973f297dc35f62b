package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
)

var (
	errEmptyDocument  = errors.New("empty document")
	errTrailingValues = errors.New("trailing data after JSON value")
)

// Document a parsed engine result. The raw form is kept byte-for-byte
// (whitespace outside strings removed) and is the canonical source for every
// derived view.
type Document struct {
	raw   []byte
	value interface{}
}

// Summary aggregate metrics for one run. A nil field was absent or non-numeric.
type Summary struct {
	TotalEnergy          *float64
	TotalCarbonFootprint *float64
	TotalRuntime         *float64
	AvgCPUUtilization    *float64
}

// TaskRecord one entry of tasks[], numerics left nil when absent
type TaskRecord struct {
	Process           string
	Hardware          string
	EnergyConsumption *float64
	CarbonFootprint   *float64
	Runtime           *float64
	CPUUsage          *float64
	MemoryAllocated   *float64
}

// Parse validates data as a single JSON value and returns its document.
// Numbers decode as json.Number so integers keep their exact value.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errEmptyDocument
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		if err == nil {
			err = errTrailingValues
		}
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}

	return &Document{
		raw:   pretty.Ugly(data),
		value: value,
	}, nil
}

// Raw returns the compacted JSON text
func (d *Document) Raw() json.RawMessage {
	return json.RawMessage(d.raw)
}

// Value returns the decoded JSON value
func (d *Document) Value() interface{} {
	return d.value
}

// Root returns the top-level object, or nil when the document is not an object
func (d *Document) Root() map[string]interface{} {
	return Object(d.value)
}

// Field returns a top-level field
func (d *Document) Field(key string) (interface{}, bool) {
	root := d.Root()
	if root == nil {
		return nil, false
	}
	v, ok := root[key]
	return v, ok
}

// Failed reports whether the engine declared the run failed, with its message
func (d *Document) Failed() (bool, string) {
	status, _ := d.Field(KeyStatus)
	if String(status, "") != StatusFailed {
		return false, ""
	}
	message, _ := d.Field(KeyMessage)
	return true, String(message, "")
}

// HasSummary reports whether a summary object is present
func (d *Document) HasSummary() bool {
	v, _ := d.Field(KeySummary)
	return Object(v) != nil
}

// Summary reads summary.{totalEnergy,...}
func (d *Document) Summary() Summary {
	v, _ := d.Field(KeySummary)
	summary := Object(v)
	return Summary{
		TotalEnergy:          OptionalNumber(summary[KeyTotalEnergy]),
		TotalCarbonFootprint: OptionalNumber(summary[KeyTotalCarbonFootprint]),
		TotalRuntime:         OptionalNumber(summary[KeyTotalRuntime]),
		AvgCPUUtilization:    OptionalNumber(summary[KeyAvgCPUUtilization]),
	}
}

// Tasks decodes tasks[]; absent or non-array yields an empty slice.
// Non-object entries are skipped.
func (d *Document) Tasks() []TaskRecord {
	v, _ := d.Field(KeyTasks)
	items := Array(v)
	tasks := make([]TaskRecord, 0, len(items))
	for _, item := range items {
		entry := Object(item)
		if entry == nil {
			continue
		}
		tasks = append(tasks, TaskRecord{
			Process:           String(entry[KeyTaskProcess], UnknownLabel),
			Hardware:          String(entry[KeyTaskHardware], UnknownLabel),
			EnergyConsumption: OptionalNumber(entry[KeyTaskEnergyConsumption]),
			CarbonFootprint:   OptionalNumber(entry[KeyTaskCarbonFootprint]),
			Runtime:           OptionalNumber(entry[KeyTaskRuntime]),
			CPUUsage:          OptionalNumber(entry[KeyTaskCPUUsage]),
			MemoryAllocated:   OptionalNumber(entry[KeyTaskMemoryAllocated]),
		})
	}
	return tasks
}

// ExceedsBound reports whether any present summary value is above bound
func (s Summary) ExceedsBound(bound float64) bool {
	for _, v := range []*float64{s.TotalEnergy, s.TotalCarbonFootprint, s.TotalRuntime, s.AvgCPUUtilization} {
		if v != nil && *v > bound {
			return true
		}
	}
	return false
}
