package immich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
)

// assetResponse is the body shape returned by POST /assets.
type assetResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Upload sends the candidate to the server, retrying transient failures with
// exponential backoff up to the configured attempt ceiling.
//
// The context gates the retry loop, not the in-flight request: once shutdown
// begins no new attempt starts, but the current attempt runs to its own
// timeout so a nearly finished upload is not thrown away.
func (c *Client) Upload(ctx context.Context, cand candidate.Candidate) UploadResult {
	for attempt := 1; ; attempt++ {
		class, resp, err := c.attemptOnce(cand)

		switch class {
		case classAccepted:
			return UploadResult{Outcome: Success, AssetID: resp.ID, Message: "upload successful", Attempts: attempt}
		case classDuplicate:
			return UploadResult{Outcome: Duplicate, AssetID: resp.ID, Message: "asset already exists", Attempts: attempt}
		case classFatal:
			return UploadResult{Outcome: FatalFailure, Message: errMessage(err), Attempts: attempt}
		}

		if !shouldRetry(class, attempt, c.maxAttempts) {
			return UploadResult{Outcome: RetryableFailure, Message: errMessage(err), Attempts: attempt}
		}

		delay := backoffDelay(c.backoffBase, attempt)
		c.log.Warn("upload attempt failed, retrying",
			"file", cand.Name(), "attempt", attempt, "delay", delay, "error", errMessage(err))

		select {
		case <-ctx.Done():
			return UploadResult{Outcome: RetryableFailure, Message: "shutdown before retry", Attempts: attempt}
		case <-time.After(delay):
		}
	}
}

// attemptOnce performs a single upload attempt. Network-level errors come
// back as classTransient; HTTP responses go through classifyStatus.
func (c *Client) attemptOnce(cand candidate.Candidate) (attemptClass, assetResponse, error) {
	f, err := os.Open(cand.Path)
	if err != nil {
		// the file vanished or turned unreadable; not worth hammering
		return classFatal, assetResponse{}, fmt.Errorf("opening %s: %w", cand.Path, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipartBody(mw, f, cand, c.deviceID)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/assets", pr)
	if err != nil {
		return classFatal, assetResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return classTransient, assetResponse{}, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	class := classifyStatus(res.StatusCode)
	if class == classFatal || class == classTransient {
		return class, assetResponse{}, fmt.Errorf("HTTP %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed assetResponse
	// a 2xx with an unparseable body is still a success; the server took
	// the bytes
	_ = json.Unmarshal(body, &parsed)

	if class == classAccepted && strings.EqualFold(parsed.Status, "duplicate") {
		class = classDuplicate
	}

	return class, parsed, nil
}

func writeMultipartBody(mw *multipart.Writer, f *os.File, cand candidate.Candidate, deviceID string) error {
	fields := map[string]string{
		"deviceAssetId":  DeviceAssetID(cand.Path, cand.Size, cand.ModTime),
		"deviceId":       deviceID,
		"fileCreatedAt":  cand.ModTime.UTC().Format(time.RFC3339),
		"fileModifiedAt": cand.ModTime.UTC().Format(time.RFC3339),
		"isFavorite":     "false",
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="assetData"; filename=%q`, cand.Name()))
	h.Set("Content-Type", ContentTypeFor(filepath.Ext(cand.Path)))

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
