package bundle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fastDownloader(retries int) *Downloader {
	d := NewDownloader()
	d.retries = retries
	d.backoff = func(int) time.Duration { return time.Millisecond }
	return d
}

func TestDownloaderDownloadToFile(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{name: "successful_download", statusCode: http.StatusOK, body: "zip bytes"},
		{name: "404_not_found", statusCode: http.StatusNotFound, body: "not found", wantErr: true},
		{name: "500_server_error", statusCode: http.StatusInternalServerError, body: "server error", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != DefaultUserAgent {
					t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			destPath := filepath.Join(t.TempDir(), "nested", "bundle.zip")
			err := fastDownloader(1).DownloadToFile(context.Background(), server.URL, destPath)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				entries, _ := os.ReadDir(filepath.Dir(destPath))
				if len(entries) != 0 {
					t.Errorf("partial files left behind: %v", entries)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			content, err := os.ReadFile(destPath)
			if err != nil {
				t.Fatalf("failed to read downloaded file: %v", err)
			}
			if string(content) != tt.body {
				t.Errorf("content mismatch:\ngot:  %q\nwant: %q", string(content), tt.body)
			}
		})
	}
}

func TestDownloaderRetryLogic(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("success"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := fastDownloader(3).DownloadToFile(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDownloaderRetryOnlyTransient(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		wantAttempts int
	}{
		{name: "404_is_final", statusCode: http.StatusNotFound, wantAttempts: 1},
		{name: "403_is_final", statusCode: http.StatusForbidden, wantAttempts: 1},
		{name: "429_is_retried", statusCode: http.StatusTooManyRequests, wantAttempts: 3},
		{name: "503_is_retried", statusCode: http.StatusServiceUnavailable, wantAttempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			err := fastDownloader(2).DownloadToFile(context.Background(), server.URL, filepath.Join(t.TempDir(), "f.zip"))
			var se *StatusError
			if !errors.As(err, &se) || se.Code != tt.statusCode {
				t.Fatalf("expected StatusError %d, got %v", tt.statusCode, err)
			}
			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
		})
	}
}

func TestDownloaderContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("too late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := fastDownloader(3).DownloadToFile(ctx, server.URL, filepath.Join(t.TempDir(), "f"))
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !strings.Contains(err.Error(), "context") {
		t.Errorf("expected context error, got: %v", err)
	}
}

func TestDownloaderFetch_ReusesExisting(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "bundle.zip")
	d := fastDownloader(0).WithToken("tok")

	downloaded, err := d.Fetch(context.Background(), server.URL, destPath, false)
	if err != nil || !downloaded {
		t.Fatalf("first Fetch() = %v, %v", downloaded, err)
	}

	downloaded, err = d.Fetch(context.Background(), server.URL, destPath, false)
	if err != nil || downloaded {
		t.Fatalf("second Fetch() = %v, %v; want reuse", downloaded, err)
	}

	downloaded, err = d.Fetch(context.Background(), server.URL, destPath, true)
	if err != nil || !downloaded {
		t.Fatalf("forced Fetch() = %v, %v", downloaded, err)
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
}
