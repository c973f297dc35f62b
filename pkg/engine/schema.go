// Package engine holds the contract with the external analysis engine: the
// JSON document it prints on stdout and the lenient accessors used to read it.
//
// Summary keys are camelCase (totalEnergy, totalCarbonFootprint, ...). The
// snake_case variants emitted by older engine revisions are not read.
package engine

const (
	KeyStatus      = "status"
	KeyMessage     = "message"
	KeySummary     = "summary"
	KeyTasks       = "tasks"
	KeyHostData    = "hostData"
	KeyProcessData = "processData"

	StatusFailed = "failed"
)

// summary
const (
	KeyTotalEnergy          = "totalEnergy"
	KeyTotalCarbonFootprint = "totalCarbonFootprint"
	KeyTotalRuntime         = "totalRuntime"
	KeyAvgCPUUtilization    = "avgCpuUtilization"
)

// tasks[]
const (
	KeyTaskProcess           = "process"
	KeyTaskHardware          = "hardware"
	KeyTaskEnergyConsumption = "energyConsumption"
	KeyTaskCarbonFootprint   = "carbonFootprint"
	KeyTaskRuntime           = "runtime"
	KeyTaskCPUUsage          = "cpu_usage"
	KeyTaskMemoryAllocated   = "memory_allocated"
)

// hostData
const (
	KeyHosts              = "hosts"
	KeyTaskCounts         = "task_counts"
	KeyRuntimes           = "runtimes"
	KeyCPUUtilizations    = "cpu_utilizations"
	KeyMemoryAllocations  = "memory_allocations"
	KeyIOVolumes          = "io_volumes"
	KeyEnergyConsumptions = "energy_consumptions"
	KeyCarbonEmissions    = "carbon_emissions"
	KeyHostProcesses      = "processes"
)

// processData[]
const (
	KeyProcName              = "process"
	KeyProcTasks             = "tasks"
	KeyProcRuntime           = "runtime"
	KeyProcCPUUsage          = "cpu_usage"
	KeyProcMemoryAllocated   = "memory_allocated"
	KeyProcIOVolume          = "io_volume"
	KeyProcEnergyConsumption = "energy_consumption"
	KeyProcCarbonFootprint   = "carbon_footprint"
	KeyProcReadGB            = "read_gb"
	KeyProcWriteGB           = "write_gb"
)

// UnknownLabel placeholder for missing string fields
const UnknownLabel = "Unknown"
