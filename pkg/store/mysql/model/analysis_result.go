package model

import "time"

// AnalysisResult MySQL model for analysis_results table.
// RawData is the canonical engine document; the summary columns are a cache of it.
type AnalysisResult struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID              int64     `gorm:"column:trace_id;not null;uniqueIndex:idx_trace_id_unique" json:"trace_id"`
	AnalysisTime         time.Time `gorm:"column:analysis_time;type:datetime(3);not null;index:idx_analysis_time" json:"analysis_time"`
	TotalEnergy          *float64  `gorm:"column:total_energy;type:double" json:"total_energy"`
	TotalCarbonFootprint *float64  `gorm:"column:total_carbon_footprint;type:double" json:"total_carbon_footprint"`
	TotalRuntime         *float64  `gorm:"column:total_runtime;type:double" json:"total_runtime"`
	AvgCPUUtilization    *float64  `gorm:"column:avg_cpu_utilization;type:double" json:"avg_cpu_utilization"`
	RawData              RawJSON   `gorm:"column:raw_data;type:json;not null" json:"raw_data"`

	Trace *Trace `gorm:"foreignKey:TraceID;constraint:OnDelete:CASCADE" json:"trace,omitempty"`
}

// TableName specifies the table name for AnalysisResult
func (AnalysisResult) TableName() string {
	return "analysis_results"
}
