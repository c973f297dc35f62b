// Package status turns analysis engine failures into messages that are safe
// to return to API clients. Engine stderr is passed through, minus anything
// that looks like a credential or an internal address.
package status

import (
	"regexp"

	"carbontrace/pkg/runner"
)

// KindUnknown mapping key for failures without a specific mapping
const KindUnknown runner.Kind = "unknown"

// SanitizedError represents a user-friendly error message with suggestions.
type SanitizedError struct {
	// UserMessage is the user-friendly error message
	UserMessage string `json:"userMessage"`
	// Suggestion provides actionable advice for the user
	Suggestion string `json:"suggestion"`
	// ErrorCode is a unique code for this error type
	ErrorCode string `json:"errorCode"`
}

// ExecutionErrorMappings default mapping per execution failure kind
var ExecutionErrorMappings = map[runner.Kind]SanitizedError{
	runner.KindExitCode: {
		UserMessage: "Analysis engine exited with an error",
		Suggestion:  "Check that the trace is a valid CSV export and that the engine dependencies are installed",
		ErrorCode:   "ENGINE_EXIT_CODE",
	},
	runner.KindEmptyOutput: {
		UserMessage: "Analysis engine produced no output",
		Suggestion:  "The engine may have crashed before printing results; check the server logs",
		ErrorCode:   "ENGINE_NO_OUTPUT",
	},
	runner.KindIOFailure: {
		UserMessage: "Could not run the analysis engine",
		Suggestion:  "Verify analysis.executable and analysis.script in the server configuration",
		ErrorCode:   "ENGINE_IO_FAILURE",
	},
	runner.KindInterrupted: {
		UserMessage: "Analysis was interrupted",
		Suggestion:  "The run exceeded analysis.timeout or the server is shutting down; retry the analysis",
		ErrorCode:   "ENGINE_INTERRUPTED",
	},
	runner.KindMalformedOutput: {
		UserMessage: "Analysis engine output is not valid JSON",
		Suggestion:  "Make sure the engine prints a single JSON document on stdout",
		ErrorCode:   "ENGINE_MALFORMED_OUTPUT",
	},
	runner.KindEngineFailure: {
		UserMessage: "Analysis engine reported a failure",
		Suggestion:  "Review the error message for details about the trace file",
		ErrorCode:   "ENGINE_REPORTED_FAILURE",
	},
	KindUnknown: {
		UserMessage: "Analysis failed",
		Suggestion:  "Retry the analysis; if the problem persists check the server logs",
		ErrorCode:   "ENGINE_UNKNOWN",
	},
}

// Sanitizer maps execution failures to user-facing errors and redacts
// sensitive information from engine output.
type Sanitizer struct {
	errorMappings     map[runner.Kind]SanitizedError
	sensitivePatterns []*sensitivePattern
}

// sensitivePattern represents a pattern for sensitive information
type sensitivePattern struct {
	pattern     *regexp.Regexp
	replacement string
	description string
}

// NewSanitizer creates a sanitizer with the default mappings and patterns
func NewSanitizer() *Sanitizer {
	mappings := make(map[runner.Kind]SanitizedError, len(ExecutionErrorMappings))
	for k, v := range ExecutionErrorMappings {
		mappings[k] = v
	}
	return &Sanitizer{
		errorMappings:     mappings,
		sensitivePatterns: buildDefaultSensitivePatterns(),
	}
}

func buildDefaultSensitivePatterns() []*sensitivePattern {
	return []*sensitivePattern{
		// URLs with embedded credentials, e.g. a database URL in a traceback
		{
			pattern:     regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^:/\s]+:[^@\s]+@[a-zA-Z0-9][-a-zA-Z0-9_.]*`),
			replacement: "[credential-url]",
			description: "URL with credentials",
		},

		// key=value or key: value secrets
		{
			pattern:     regexp.MustCompile(`(?i)\b(password|passwd|secret|token|api[_-]?key|access[_-]?key)(\s*[=:]\s*)[^\s,;'"()\[\]]+`),
			replacement: "${1}${2}[redacted]",
			description: "secret assignment",
		},
		{
			pattern:     regexp.MustCompile(`(?i)\bbearer\s+[a-z0-9._~+/-]+=*`),
			replacement: "Bearer [redacted]",
			description: "bearer token",
		},

		// AWS access key ids
		{
			pattern:     regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`),
			replacement: "[aws-access-key]",
			description: "AWS access key id",
		},

		// Internal IP addresses (IPv4)
		// Private IP ranges: 10.x.x.x, 172.16-31.x.x, 192.168.x.x
		{
			pattern:     regexp.MustCompile(`\b10\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
			replacement: "[internal-ip]",
			description: "10.x.x.x private IP",
		},
		{
			pattern:     regexp.MustCompile(`\b172\.(1[6-9]|2[0-9]|3[0-1])\.\d{1,3}\.\d{1,3}\b`),
			replacement: "[internal-ip]",
			description: "172.16-31.x.x private IP",
		},
		{
			pattern:     regexp.MustCompile(`\b192\.168\.\d{1,3}\.\d{1,3}\b`),
			replacement: "[internal-ip]",
			description: "192.168.x.x private IP",
		},

		// User home directories in tracebacks
		{
			pattern:     regexp.MustCompile(`/(home|Users)/[^/\s]+`),
			replacement: "/$1/[user]",
			description: "home directory",
		},
	}
}

// Sanitize returns the user-facing error for kind, falling back to the unknown mapping
func (s *Sanitizer) Sanitize(kind runner.Kind) *SanitizedError {
	sanitized, ok := s.errorMappings[kind]
	if !ok {
		sanitized = s.errorMappings[KindUnknown]
	}
	return &sanitized
}

// SanitizeSensitiveInfo removes sensitive information from message
func (s *Sanitizer) SanitizeSensitiveInfo(message string) string {
	if message == "" {
		return message
	}

	result := message
	for _, sp := range s.sensitivePatterns {
		result = sp.pattern.ReplaceAllString(result, sp.replacement)
	}

	return result
}

// AddErrorMapping overrides the mapping for kind
func (s *Sanitizer) AddErrorMapping(kind runner.Kind, sanitized SanitizedError) {
	s.errorMappings[kind] = sanitized
}

// AddSensitivePattern adds a redaction applied after the defaults
func (s *Sanitizer) AddSensitivePattern(pattern *regexp.Regexp, replacement, description string) {
	s.sensitivePatterns = append(s.sensitivePatterns, &sensitivePattern{
		pattern:     pattern,
		replacement: replacement,
		description: description,
	})
}

// SanitizeExecutionError builds the user-facing error for err with its
// message redacted. The message keeps engine stderr so callers can act on it.
func (s *Sanitizer) SanitizeExecutionError(err *runner.ExecutionError) (*SanitizedError, string) {
	return s.Sanitize(err.Kind), s.SanitizeSensitiveInfo(err.Error())
}
