package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Queue    QueueConfig    `yaml:"queue"`
	Logger   LoggerConfig   `yaml:"logger"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

// RedisConfig Redis configuration
// Addr left empty disables the async queue and falls back to single-instance locks
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// QueueConfig queue configuration
type QueueConfig struct {
	Enabled     bool          `yaml:"enabled"`      // requires redis.addr
	Concurrency int           `yaml:"concurrency"`  // number of analyses processed in parallel
	TaskTimeout time.Duration `yaml:"task_timeout"` // upper bound for one queued analysis
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// AnalysisConfig analysis engine invocation
type AnalysisConfig struct {
	Executable  string        `yaml:"executable"`   // interpreter, e.g. python3
	Script      string        `yaml:"script"`       // script path on disk, or entry name inside Bundle
	Bundle      string        `yaml:"bundle"`       // optional zip archive holding the script
	Timeout     time.Duration `yaml:"timeout"`      // bounded wait for one engine run
	SanityBound float64       `yaml:"sanity_bound"` // summary values above this are logged as suspicious
}

// StorageConfig file placement
type StorageConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	ExportDir   string `yaml:"export_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// JobsConfig background jobs
type JobsConfig struct {
	UploadSweepInterval time.Duration `yaml:"upload_sweep_interval"`
	UploadGracePeriod   time.Duration `yaml:"upload_grace_period"`
	QueueStatsInterval  time.Duration `yaml:"queue_stats_interval"`
}

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	GlobalConfig = cfg
	return nil
}

// Load reads a configuration file and applies defaults to missing or invalid values
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	validateAndApplyDefaults(&cfg)
	return &cfg, nil
}
