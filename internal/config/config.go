package config

import (
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Watch    WatchConfig    `yaml:"watch"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Upload   UploadConfig   `yaml:"upload"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Notify   NotifyConfig   `yaml:"notifications"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	URL      string `yaml:"url"`
	APIKey   string `yaml:"apiKey"`
	DeviceID string `yaml:"deviceId"` // empty = derived at startup
}

type WatchConfig struct {
	Directories       []string      `yaml:"directories"`
	Recursive         bool          `yaml:"recursive"`
	Mode              string        `yaml:"mode"` // "auto", "poll", "fsnotify"
	PollInterval      time.Duration `yaml:"pollInterval"`
	Extensions        []string      `yaml:"extensions"`
	StabilityWait     time.Duration `yaml:"stabilityWait"`
	StabilityInterval time.Duration `yaml:"stabilityInterval"`
}

type ArchiveConfig struct {
	Directory string `yaml:"directory"`
}

type UploadConfig struct {
	MaxAttempts    int           `yaml:"maxAttempts"`
	BackoffBase    time.Duration `yaml:"backoffBase"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	MaxFileSizeMB  int64         `yaml:"maxFileSizeMB"`
}

type PipelineConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queueSize"`
}

type ScheduleConfig struct {
	StatsSummary string `yaml:"statsSummary"` // cron spec, e.g. "@every 5m"
	Rescan       string `yaml:"rescan"`       // cron spec, empty disables
}

type NotifyConfig struct {
	Enabled      bool          `yaml:"enabled"`
	BatchTimeout time.Duration `yaml:"batchTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text"
}

// MaxFileSizeBytes returns the upload size limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Upload.MaxFileSizeMB * 1024 * 1024
}

// IsSupportedFile reports whether the filename carries an allowed extension.
// Comparison is case-insensitive; a leading dot in the configured value is
// tolerated.
func (c *Config) IsSupportedFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, e := range c.Watch.Extensions {
		if ext == strings.ToLower(strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

// IsInArchive reports whether path lies inside the archive directory tree.
// Paths that cannot be resolved are treated as inside and therefore skipped.
func (c *Config) IsInArchive(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	root, err := filepath.Abs(c.Archive.Directory)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return true
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
