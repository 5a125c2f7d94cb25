package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/release"
)

const (
	// DefaultLockWait bounds how long a launch waits for another one to
	// finish extracting.
	DefaultLockWait = 2 * time.Minute

	lockPollInterval = 100 * time.Millisecond
)

// Materializer makes the working directory for a tag exist.
type Materializer struct {
	layout    Layout
	extractor *Extractor
	lockWait  time.Duration
	logger    *slog.Logger
}

// NewMaterializer creates a materializer for layout.
func NewMaterializer(layout Layout, logger *slog.Logger) (*Materializer, error) {
	if layout.Name == "" {
		return nil, fmt.Errorf("bundle name is required")
	}
	if layout.DownloadDir == "" || layout.ExtractRoot == "" {
		return nil, fmt.Errorf("download dir and extract root are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{
		layout:    layout,
		extractor: NewExtractor(),
		lockWait:  DefaultLockWait,
		logger:    logger,
	}, nil
}

// WithLockWait sets how long Materialize waits for a held extraction lock.
// Zero means fail immediately with ErrLockExists.
func (m *Materializer) WithLockWait(d time.Duration) *Materializer {
	m.lockWait = d
	return m
}

// Layout returns the layout in use.
func (m *Materializer) Layout() Layout {
	return m.layout
}

// Materialize returns the working directory for tag. The archive must exist;
// the directory is extracted from it only if it is not there yet.
func (m *Materializer) Materialize(ctx context.Context, tag release.Tag) (*Result, error) {
	if err := ValidateTag(tag); err != nil {
		return nil, goerr.Wrap(err, "materialize bundle", goerr.V("tag", tag))
	}

	result := &Result{
		Tag:     tag,
		Dir:     m.layout.WorkingDir(tag),
		Archive: m.layout.ArchivePath(tag),
	}

	if _, err := os.Stat(result.Archive); err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrArchiveNotFound, "no archive for tag",
				goerr.V("tag", tag), goerr.V("archive", result.Archive))
		}
		return nil, goerr.Wrap(ErrArchiveNotFound, err.Error(), goerr.V("archive", result.Archive))
	}

	done, err := isDir(result.Dir)
	if err != nil {
		return nil, goerr.Wrap(ErrExtraction, err.Error(), goerr.V("dir", result.Dir))
	}
	if done {
		m.logger.Debug("working directory present, skipping extraction", "dir", result.Dir)
		return result, nil
	}

	lock, err := m.waitForLock(ctx)
	if err != nil {
		if errors.Is(err, ErrLockExists) || ctx.Err() != nil {
			return nil, goerr.Wrap(err, "acquire extraction lock", goerr.V("root", m.layout.ExtractRoot))
		}
		return nil, goerr.Wrap(ErrExtraction, err.Error(), goerr.V("root", m.layout.ExtractRoot))
	}
	defer func() {
		if err := lock.Release(); err != nil {
			m.logger.Warn("failed to release extraction lock", "error", err)
		}
	}()

	// Another launch may have finished while we waited on the lock.
	if done, err := isDir(result.Dir); err == nil && done {
		m.logger.Debug("working directory extracted by another launch", "dir", result.Dir)
		return result, nil
	}

	m.removeStaleStaging(tag)

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "materialize bundle", goerr.V("tag", tag))
	}

	staging := filepath.Join(m.layout.ExtractRoot, m.layout.stagingPrefix(tag)+uuid.NewString())
	m.logger.Info("extracting bundle", "archive", result.Archive, "dir", result.Dir)

	if err := m.extractor.ExtractZip(result.Archive, staging); err != nil {
		os.RemoveAll(staging)
		return nil, goerr.Wrap(ErrExtraction, err.Error(), goerr.V("archive", result.Archive))
	}

	if err := os.Rename(staging, result.Dir); err != nil {
		os.RemoveAll(staging)
		return nil, goerr.Wrap(ErrExtraction, fmt.Sprintf("rename staging dir: %v", err), goerr.V("dir", result.Dir))
	}

	result.Extracted = true
	return result, nil
}

// waitForLock polls the extraction lock until it is free, ctx is done or
// lockWait has passed.
func (m *Materializer) waitForLock(ctx context.Context) (*Lock, error) {
	deadline := time.Now().Add(m.lockWait)
	logged := false
	for {
		lock, err := AcquireLock(m.layout.ExtractRoot)
		if !errors.Is(err, ErrLockExists) {
			return lock, err
		}
		if !time.Now().Before(deadline) {
			return nil, err
		}
		if !logged {
			m.logger.Info("waiting for another launch to finish extracting", "root", m.layout.ExtractRoot)
			logged = true
		}

		t := time.NewTimer(lockPollInterval)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}
}

// removeStaleStaging deletes staging directories left by interrupted runs.
// Callers must hold the extraction lock.
func (m *Materializer) removeStaleStaging(tag release.Tag) {
	entries, err := os.ReadDir(m.layout.ExtractRoot)
	if err != nil {
		return
	}
	prefix := m.layout.stagingPrefix(tag)
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			path := filepath.Join(m.layout.ExtractRoot, e.Name())
			m.logger.Debug("removing interrupted extraction", "path", path)
			os.RemoveAll(path)
		}
	}
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s exists and is not a directory", path)
	}
	return true, nil
}
