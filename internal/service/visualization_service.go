package service

import (
	"context"
	"fmt"

	"carbontrace/internal/model"
	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/engine"
	"carbontrace/pkg/interfaces"
)

// VisualizationService rebuilds chart data from a result's raw document.
// It holds no state besides the store and is safe for concurrent use.
type VisualizationService struct {
	results interfaces.ResultStore
}

// NewVisualizationService creates a new visualization service
func NewVisualizationService(results interfaces.ResultStore) *VisualizationService {
	return &VisualizationService{results: results}
}

// GetVisualizationData projects the stored result resultID
func (s *VisualizationService) GetVisualizationData(ctx context.Context, resultID int64) (*model.VisualizationData, error) {
	result, err := s.results.Get(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	if result == nil {
		return nil, apperrors.NewNotFoundError(entityAnalysisResult, resultID)
	}

	data, err := Project(result.RawData)
	if err != nil {
		return nil, apperrors.NewDataCorruptionError(entityAnalysisResult, resultID, err)
	}
	return data, nil
}

// Project parses raw and fills every field with its default when absent.
// Slices are never nil; HostData is nil only when the document has no hostData key.
func Project(raw []byte) (*model.VisualizationData, error) {
	doc, err := engine.Parse(raw)
	if err != nil {
		return nil, err
	}

	return &model.VisualizationData{
		Summary:     projectSummary(doc),
		Tasks:       projectTasks(doc),
		HostData:    projectHostData(doc),
		ProcessData: projectProcessData(doc),
	}, nil
}

func projectSummary(doc *engine.Document) model.SummaryData {
	s := doc.Summary()
	return model.SummaryData{
		TotalEnergy:          deref(s.TotalEnergy),
		TotalCarbonFootprint: deref(s.TotalCarbonFootprint),
		TotalRuntime:         deref(s.TotalRuntime),
		AvgCPUUtilization:    deref(s.AvgCPUUtilization),
	}
}

func projectTasks(doc *engine.Document) []model.TaskData {
	records := doc.Tasks()
	tasks := make([]model.TaskData, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, model.TaskData{
			Process:           r.Process,
			Hardware:          r.Hardware,
			EnergyConsumption: deref(r.EnergyConsumption),
			CarbonFootprint:   deref(r.CarbonFootprint),
			Runtime:           deref(r.Runtime),
			CPUUsage:          deref(r.CPUUsage),
			MemoryAllocated:   deref(r.MemoryAllocated),
		})
	}
	return tasks
}

func projectHostData(doc *engine.Document) *model.HostData {
	v, ok := doc.Field(engine.KeyHostData)
	if !ok {
		return nil
	}
	host := engine.Object(v)

	data := &model.HostData{
		Hosts:              stringSeries(host[engine.KeyHosts]),
		TaskCounts:         intSeries(host[engine.KeyTaskCounts]),
		Runtimes:           numberSeries(host[engine.KeyRuntimes]),
		CPUUtilizations:    numberSeries(host[engine.KeyCPUUtilizations]),
		MemoryAllocations:  numberSeries(host[engine.KeyMemoryAllocations]),
		IOVolumes:          numberSeries(host[engine.KeyIOVolumes]),
		EnergyConsumptions: numberSeries(host[engine.KeyEnergyConsumptions]),
		CarbonEmissions:    numberSeries(host[engine.KeyCarbonEmissions]),
		Processes:          make(map[string]string),
	}

	for name, label := range engine.Object(host[engine.KeyHostProcesses]) {
		data.Processes[name] = engine.Label(label)
	}
	return data
}

func projectProcessData(doc *engine.Document) []model.ProcessData {
	v, _ := doc.Field(engine.KeyProcessData)
	items := engine.Array(v)
	processes := make([]model.ProcessData, 0, len(items))
	for _, item := range items {
		p := engine.Object(item)
		if p == nil {
			continue
		}
		processes = append(processes, model.ProcessData{
			Process:           engine.String(p[engine.KeyProcName], engine.UnknownLabel),
			Tasks:             engine.Int(p[engine.KeyProcTasks], 0),
			Runtime:           engine.Number(p[engine.KeyProcRuntime], 0),
			CPUUsage:          engine.Number(p[engine.KeyProcCPUUsage], 0),
			MemoryAllocated:   engine.Number(p[engine.KeyProcMemoryAllocated], 0),
			IOVolume:          engine.Number(p[engine.KeyProcIOVolume], 0),
			EnergyConsumption: engine.Number(p[engine.KeyProcEnergyConsumption], 0),
			CarbonFootprint:   engine.Number(p[engine.KeyProcCarbonFootprint], 0),
			ReadGB:            engine.Number(p[engine.KeyProcReadGB], 0),
			WriteGB:           engine.Number(p[engine.KeyProcWriteGB], 0),
		})
	}
	return processes
}

func stringSeries(v interface{}) []string {
	items := engine.Array(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, engine.Label(item))
	}
	return out
}

func intSeries(v interface{}) []int {
	items := engine.Array(v)
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, engine.Int(item, 0))
	}
	return out
}

func numberSeries(v interface{}) []float64 {
	items := engine.Array(v)
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, engine.Number(item, 0))
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
