package mysql

import "carbontrace/pkg/store/mysql/model"

// Re-export types from model package

type (
	// Database models
	Trace          = model.Trace
	AnalysisResult = model.AnalysisResult

	// Custom JSON types
	RawJSON = model.RawJSON
)
