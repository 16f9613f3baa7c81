package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate checks the loaded configuration and normalizes paths.
// Watch directories must exist up front; the archive directory is created
// later if missing.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url must start with http:// or https://")
	}
	if c.Server.APIKey == "" {
		return fmt.Errorf("server.apiKey is required")
	}

	if len(c.Watch.Directories) == 0 {
		return fmt.Errorf("watch.directories cannot be empty")
	}
	switch c.Watch.Mode {
	case "auto", "poll", "fsnotify":
	default:
		return fmt.Errorf("watch.mode must be auto, poll or fsnotify, got %q", c.Watch.Mode)
	}

	for i, dir := range c.Watch.Directories {
		expanded, err := expandHome(dir)
		if err != nil {
			return fmt.Errorf("watch directory %q: %w", dir, err)
		}
		st, err := os.Stat(expanded)
		if err != nil {
			return fmt.Errorf("watch directory %q: %w", dir, err)
		}
		if !st.IsDir() {
			return fmt.Errorf("watch path is not a directory: %s", expanded)
		}
		c.Watch.Directories[i] = expanded
	}

	if c.Archive.Directory == "" {
		return fmt.Errorf("archive.directory is required")
	}
	expanded, err := expandHome(c.Archive.Directory)
	if err != nil {
		return fmt.Errorf("archive directory %q: %w", c.Archive.Directory, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("archive directory %q: %w", c.Archive.Directory, err)
	}
	c.Archive.Directory = abs

	if c.Watch.StabilityInterval > c.Watch.StabilityWait {
		return fmt.Errorf("watch.stabilityInterval must not exceed watch.stabilityWait")
	}

	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
