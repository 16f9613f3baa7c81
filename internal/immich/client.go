// Package immich is a synchronous client for the Immich asset upload API.
// It builds multipart upload requests, retries transient failures with
// exponential backoff, and classifies every outcome into exactly one of
// success, duplicate, retryable failure, or fatal failure.
package immich

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
)

const userAgent = "immich-auto-uploader/1.0"

type Client struct {
	baseURL     string
	apiKey      string
	deviceID    string
	maxAttempts int
	backoffBase time.Duration

	http *http.Client
	log  logging.Logger
}

// NewClient builds a client from configuration. An empty deviceId falls back
// to the hostname, and failing that to a generated UUID, so every
// installation still presents a stable-enough identity to the server.
func NewClient(cfg *config.Config, log logging.Logger) *Client {
	deviceID := cfg.Server.DeviceID
	if deviceID == "" {
		if host, err := os.Hostname(); err == nil && host != "" {
			deviceID = host
		} else {
			deviceID = uuid.NewString()
		}
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.Server.URL, "/"),
		apiKey:      cfg.Server.APIKey,
		deviceID:    deviceID,
		maxAttempts: cfg.Upload.MaxAttempts,
		backoffBase: cfg.Upload.BackoffBase,
		http:        &http.Client{Timeout: cfg.Upload.RequestTimeout},
		log:         log,
	}
}

// DeviceID returns the identity this client presents to the server.
func (c *Client) DeviceID() string {
	return c.deviceID
}
