package constants

// TraceStatus lifecycle status of an uploaded trace
type TraceStatus string

const (
	TraceStatusUploaded       TraceStatus = "UPLOADED"
	TraceStatusAnalyzed       TraceStatus = "ANALYZED"
	TraceStatusAnalysisFailed TraceStatus = "ANALYSIS_FAILED"
	TraceStatusExecuted       TraceStatus = "EXECUTED"
	TraceStatusFailed         TraceStatus = "FAILED"
)

func (s TraceStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is the outcome of an analyze/execute action
func (s TraceStatus) IsTerminal() bool {
	switch s {
	case TraceStatusAnalyzed, TraceStatusAnalysisFailed, TraceStatusExecuted, TraceStatusFailed:
		return true
	}
	return false
}

// AnalysisAction is the lifecycle action that triggers an engine run
type AnalysisAction string

const (
	ActionAnalyze AnalysisAction = "analyze"
	ActionExecute AnalysisAction = "execute"
)

// SuccessStatus status recorded after the action completes
func (a AnalysisAction) SuccessStatus() TraceStatus {
	if a == ActionExecute {
		return TraceStatusExecuted
	}
	return TraceStatusAnalyzed
}

// FailureStatus status recorded when the action fails
func (a AnalysisAction) FailureStatus() TraceStatus {
	if a == ActionExecute {
		return TraceStatusFailed
	}
	return TraceStatusAnalysisFailed
}

// Valid reports whether a is a known action
func (a AnalysisAction) Valid() bool {
	return a == ActionAnalyze || a == ActionExecute
}
