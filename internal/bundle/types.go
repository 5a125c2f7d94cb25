package bundle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/release"
)

var (
	// ErrArchiveNotFound means the archive for the tag is not on disk.
	ErrArchiveNotFound = errors.New("bundle archive not found")
	// ErrExtraction covers unreadable archives and write failures.
	ErrExtraction = errors.New("bundle extraction failed")
	// ErrLockExists means another process is extracting into the same root.
	ErrLockExists = errors.New("extraction lock exists: another launch may be in progress")
	// ErrVerification means a fetched archive did not match its digest or signature.
	ErrVerification = errors.New("bundle verification failed")
)

const (
	// DefaultName is the bundle name used in archive and directory names.
	DefaultName = "Python-Utilities"

	archiveExt    = ".zip"
	stagingMarker = ".partial-"
	lockFileName  = ".utilhub-extract.lock"
)

// Layout derives on-disk locations from a tag.
type Layout struct {
	Name        string
	DownloadDir string
	ExtractRoot string
}

// ValidateTag rejects tags that would escape DownloadDir or ExtractRoot.
func ValidateTag(tag release.Tag) error {
	s := string(tag)
	if s == "" {
		return fmt.Errorf("empty tag: %w", ErrExtraction)
	}
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") || strings.ContainsRune(s, 0) {
		return fmt.Errorf("invalid tag %q: %w", s, ErrExtraction)
	}
	return nil
}

// BaseName returns "<Name>-<tag>".
func (l Layout) BaseName(tag release.Tag) string {
	return l.Name + "-" + string(tag)
}

// ArchivePath returns <DownloadDir>/<Name>-<tag>.zip.
func (l Layout) ArchivePath(tag release.Tag) string {
	return filepath.Join(l.DownloadDir, l.BaseName(tag)+archiveExt)
}

// WorkingDir returns <ExtractRoot>/<Name>-<tag>.
func (l Layout) WorkingDir(tag release.Tag) string {
	return filepath.Join(l.ExtractRoot, l.BaseName(tag))
}

// stagingPrefix is the prefix of in-progress extraction directories for tag.
func (l Layout) stagingPrefix(tag release.Tag) string {
	return "." + l.BaseName(tag) + stagingMarker
}

// Result describes a materialized bundle.
type Result struct {
	Tag       release.Tag
	Dir       string
	Archive   string
	Extracted bool
}
