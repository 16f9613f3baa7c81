package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

func Load(path string) (*Config, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Watch.Mode == "" {
		c.Watch.Mode = "auto"
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = 10 * time.Second
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{
			"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp",
			"mp4", "mov", "avi", "mkv", "wmv", "flv", "m4v", "3gp",
		}
	}
	if c.Watch.StabilityWait <= 0 {
		c.Watch.StabilityWait = 5 * time.Second
	}
	if c.Watch.StabilityInterval <= 0 {
		c.Watch.StabilityInterval = time.Second
	}
	if c.Upload.MaxAttempts <= 0 {
		c.Upload.MaxAttempts = 4
	}
	if c.Upload.BackoffBase <= 0 {
		c.Upload.BackoffBase = time.Second
	}
	if c.Upload.RequestTimeout <= 0 {
		c.Upload.RequestTimeout = 60 * time.Second
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		c.Upload.MaxFileSizeMB = 1000
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 2
	}
	if c.Pipeline.QueueSize <= 0 {
		c.Pipeline.QueueSize = c.Pipeline.Workers * 2
	}
	if c.Schedule.StatsSummary == "" {
		c.Schedule.StatsSummary = "@every 5m"
	}
	if c.Notify.BatchTimeout <= 0 {
		c.Notify.BatchTimeout = 30 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
