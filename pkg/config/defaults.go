package config

import (
	"math"
	"strings"
	"time"
)

const (
	DefaultServerPort          = 8080
	DefaultQueueConcurrency    = 2
	DefaultQueueTaskTimeout    = 15 * time.Minute
	DefaultExecutable          = "python3"
	DefaultScript              = "scripts/analysis.py"
	DefaultAnalysisTimeout     = 10 * time.Minute
	DefaultSanityBound         = 1e9
	DefaultUploadDir           = "./uploads"
	DefaultExportDir           = "./exports"
	DefaultMaxUploadMB         = 100
	DefaultUploadSweepInterval = time.Hour
	DefaultUploadGracePeriod   = 24 * time.Hour
	DefaultQueueStatsInterval  = 30 * time.Second
)

// DefaultAnalysisConfig returns the analysis section used when nothing is configured
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Executable:  DefaultExecutable,
		Script:      DefaultScript,
		Timeout:     DefaultAnalysisTimeout,
		SanityBound: DefaultSanityBound,
	}
}

// DefaultStorageConfig returns the storage section used when nothing is configured
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		UploadDir:   DefaultUploadDir,
		ExportDir:   DefaultExportDir,
		MaxUploadMB: DefaultMaxUploadMB,
	}
}

// DefaultJobsConfig returns the jobs section used when nothing is configured
func DefaultJobsConfig() JobsConfig {
	return JobsConfig{
		UploadSweepInterval: DefaultUploadSweepInterval,
		UploadGracePeriod:   DefaultUploadGracePeriod,
		QueueStatsInterval:  DefaultQueueStatsInterval,
	}
}

// validateAndApplyDefaults replaces zero or invalid values with defaults.
// Valid values are left untouched, so applying it twice is a no-op.
func validateAndApplyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		cfg.Server.Port = DefaultServerPort
	}

	if cfg.Queue.Concurrency <= 0 {
		cfg.Queue.Concurrency = DefaultQueueConcurrency
	}
	if cfg.Queue.TaskTimeout <= 0 {
		cfg.Queue.TaskTimeout = DefaultQueueTaskTimeout
	}

	analysis := DefaultAnalysisConfig()
	if strings.TrimSpace(cfg.Analysis.Executable) == "" {
		cfg.Analysis.Executable = analysis.Executable
	}
	if strings.TrimSpace(cfg.Analysis.Script) == "" {
		cfg.Analysis.Script = analysis.Script
	}
	if cfg.Analysis.Timeout <= 0 {
		cfg.Analysis.Timeout = analysis.Timeout
	}
	if cfg.Analysis.SanityBound <= 0 || math.IsNaN(cfg.Analysis.SanityBound) || math.IsInf(cfg.Analysis.SanityBound, 0) {
		cfg.Analysis.SanityBound = analysis.SanityBound
	}

	storage := DefaultStorageConfig()
	if strings.TrimSpace(cfg.Storage.UploadDir) == "" {
		cfg.Storage.UploadDir = storage.UploadDir
	}
	if strings.TrimSpace(cfg.Storage.ExportDir) == "" {
		cfg.Storage.ExportDir = storage.ExportDir
	}
	if cfg.Storage.MaxUploadMB <= 0 {
		cfg.Storage.MaxUploadMB = storage.MaxUploadMB
	}

	jobs := DefaultJobsConfig()
	if cfg.Jobs.UploadSweepInterval <= 0 {
		cfg.Jobs.UploadSweepInterval = jobs.UploadSweepInterval
	}
	if cfg.Jobs.UploadGracePeriod <= 0 {
		cfg.Jobs.UploadGracePeriod = jobs.UploadGracePeriod
	}
	if cfg.Jobs.QueueStatsInterval <= 0 {
		cfg.Jobs.QueueStatsInterval = jobs.QueueStatsInterval
	}
}
