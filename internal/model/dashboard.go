package model

import "time"

// DashboardSummary totals over every complete analysis
type DashboardSummary struct {
	TotalEnergy          float64 `json:"totalEnergy"`
	TotalCarbonFootprint float64 `json:"totalCarbonFootprint"`
	AvgRuntime           float64 `json:"avgRuntime"`
	TotalAnalyses        int64   `json:"totalAnalyses"`
}

// AnalysisSummary one row of the recent analyses list
type AnalysisSummary struct {
	ID                   int64     `json:"id"`
	FileName             string    `json:"fileName"`
	AnalyzedAt           time.Time `json:"analyzedAt"`
	TotalEnergy          *float64  `json:"totalEnergy"`
	TotalCarbonFootprint *float64  `json:"totalCarbonFootprint"`
	TotalRuntime         *float64  `json:"totalRuntime"`
}

// EnergyConsumer one task in the top consumers ranking
type EnergyConsumer struct {
	Process    string  `json:"process"`
	Energy     float64 `json:"energy"`
	AnalysisID int64   `json:"analysisId"`
}
