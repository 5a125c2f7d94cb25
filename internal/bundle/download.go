package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultDownloadTimeout is the default HTTP request timeout
	DefaultDownloadTimeout = 5 * time.Minute
	// DefaultRetries is the default number of download retries
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "utilhub/1.0"
)

// Downloader handles HTTP downloads with retry logic
type Downloader struct {
	client    *http.Client
	userAgent string
	token     string
	retries   int
	backoff   func(attempt int) time.Duration
}

// NewDownloader creates a new downloader
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultDownloadTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// GitHub zipball URLs redirect to codeload
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		backoff:   exponentialBackoff,
	}
}

// WithUserAgent sets the User-Agent header.
func (d *Downloader) WithUserAgent(ua string) *Downloader {
	d.userAgent = ua
	return d
}

// WithToken sends token as a bearer credential on every request.
func (d *Downloader) WithToken(token string) *Downloader {
	d.token = token
	return d
}

// exponentialBackoff returns 1s, 2s, 4s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

// Fetch downloads url to destPath unless a non-empty file is already there
// and force is false. It reports whether a download happened.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string, force bool) (bool, error) {
	if !force && fileExists(destPath) {
		return false, nil
	}
	if err := d.DownloadToFile(ctx, url, destPath); err != nil {
		return false, err
	}
	return true, nil
}

// StatusError is a non-200 answer from the archive host.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Temporary reports whether another attempt may succeed. Client errors other
// than timeouts and rate limiting are final.
func (e *StatusError) Temporary() bool {
	if e.Code == http.StatusRequestTimeout || e.Code == http.StatusTooManyRequests {
		return true
	}
	return e.Code < 400 || e.Code >= 500
}

// DownloadToFile fetches url into destPath, retrying transient failures with
// backoff. destPath is only replaced once the whole body has been written.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error
	attempts := 0
	for attempts <= d.retries {
		if attempts > 0 {
			t := time.NewTimer(d.backoff(attempts))
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
		}
		attempts++

		lastErr = d.fetchInto(ctx, url, destPath)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var se *StatusError
		if errors.As(lastErr, &se) && !se.Temporary() {
			break
		}
	}
	return fmt.Errorf("download %s (%d attempts): %w", url, attempts, lastErr)
}

func (d *Downloader) fetchInto(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	part, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".download-*")
	if err != nil {
		return fmt.Errorf("create partial file: %w", err)
	}
	partPath := part.Name()

	_, copyErr := io.Copy(part, resp.Body)
	closeErr := part.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("write archive: %w", err)
	}

	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not empty
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
