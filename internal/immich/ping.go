package immich

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Ping checks connectivity to the server. A failure is reported to the
// caller but is not fatal for the process; monitoring continues and uploads
// will retry on their own.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/server/ping", nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pinging server: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("pinging server: HTTP %d", res.StatusCode)
	}
	return nil
}
