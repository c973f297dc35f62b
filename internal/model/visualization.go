package model

// VisualizationData chart model rebuilt from a result's raw data on every request
type VisualizationData struct {
	Summary     SummaryData   `json:"summary"`
	Tasks       []TaskData    `json:"tasks"`
	HostData    *HostData     `json:"hostData,omitempty"` // nil when the document has no hostData
	ProcessData []ProcessData `json:"processData"`
}

// SummaryData summary metrics
type SummaryData struct {
	TotalEnergy          float64 `json:"totalEnergy"`
	TotalCarbonFootprint float64 `json:"totalCarbonFootprint"`
	TotalRuntime         float64 `json:"totalRuntime"`
	AvgCPUUtilization    float64 `json:"avgCpuUtilization"`
}

// TaskData per-task metrics
type TaskData struct {
	Process           string  `json:"process"`
	Hardware          string  `json:"hardware"`
	EnergyConsumption float64 `json:"energyConsumption"`
	CarbonFootprint   float64 `json:"carbonFootprint"`
	Runtime           float64 `json:"runtime"`
	CPUUsage          float64 `json:"cpuUsage"`
	MemoryAllocated   float64 `json:"memoryAllocated"`
}

// HostData per-host series; index i of every slice describes Hosts[i]
type HostData struct {
	Hosts              []string          `json:"hosts"`
	TaskCounts         []int             `json:"taskCounts"`
	Runtimes           []float64         `json:"runtimes"`
	CPUUtilizations    []float64         `json:"cpuUtilizations"`
	MemoryAllocations  []float64         `json:"memoryAllocations"`
	IOVolumes          []float64         `json:"ioVolumes"`
	EnergyConsumptions []float64         `json:"energyConsumptions"`
	CarbonEmissions    []float64         `json:"carbonEmissions"`
	Processes          map[string]string `json:"processes"`
}

// ProcessData per-process aggregates
type ProcessData struct {
	Process           string  `json:"process"`
	Tasks             int     `json:"tasks"`
	Runtime           float64 `json:"runtime"`
	CPUUsage          float64 `json:"cpuUsage"`
	MemoryAllocated   float64 `json:"memoryAllocated"`
	IOVolume          float64 `json:"ioVolume"`
	EnergyConsumption float64 `json:"energyConsumption"`
	CarbonFootprint   float64 `json:"carbonFootprint"`
	ReadGB            float64 `json:"readGb"`
	WriteGB           float64 `json:"writeGb"`
}
