package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/release"
)

// LatestReleaser returns the newest release document.
type LatestReleaser interface {
	Latest(ctx context.Context) (*release.Release, error)
}

// FetchOptions controls a single update.
type FetchOptions struct {
	// Force re-downloads an archive that is already present.
	Force bool
	// SHA256 is the expected hex digest of the archive.
	SHA256 string
	// Signature is a path or http(s) URL of a detached signature.
	Signature string
	// Keyring is the public keyring used with Signature.
	Keyring string
}

// FetchResult describes a completed update.
type FetchResult struct {
	Tag        release.Tag
	Archive    string
	Downloaded bool
	Verified   VerificationMethod
}

// Updater fetches the archive of the latest release into the download dir.
type Updater struct {
	releases   LatestReleaser
	layout     Layout
	downloader *Downloader
	verifier   *Verifier
	logger     *slog.Logger
}

// NewUpdater creates an updater.
func NewUpdater(releases LatestReleaser, layout Layout, downloader *Downloader, logger *slog.Logger) *Updater {
	if downloader == nil {
		downloader = NewDownloader()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		releases:   releases,
		layout:     layout,
		downloader: downloader,
		verifier:   NewVerifier(),
		logger:     logger,
	}
}

// Fetch resolves the latest release and downloads its zipball to
// ArchivePath(tag). A failed verification removes the archive.
func (u *Updater) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	if opts.Signature != "" && opts.Keyring == "" {
		return nil, goerr.New("a keyring is required to check a signature")
	}

	rel, err := u.releases.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateTag(rel.TagName); err != nil {
		return nil, goerr.Wrap(err, "fetch bundle")
	}
	url, err := rel.ArchiveURL()
	if err != nil {
		return nil, err
	}

	result := &FetchResult{
		Tag:     rel.TagName,
		Archive: u.layout.ArchivePath(rel.TagName),
	}

	u.logger.Info("fetching bundle", "tag", result.Tag, "url", url, "dest", result.Archive)

	result.Downloaded, err = u.downloader.Fetch(ctx, url, result.Archive, opts.Force)
	if err != nil {
		return nil, goerr.Wrap(err, "download bundle", goerr.V("url", url))
	}
	if !result.Downloaded {
		u.logger.Info("archive already present", "archive", result.Archive)
	}

	method, err := u.verify(ctx, result.Archive, opts)
	if err != nil {
		if rmErr := os.Remove(result.Archive); rmErr != nil && !os.IsNotExist(rmErr) {
			u.logger.Warn("failed to remove unverified archive", "archive", result.Archive, "error", rmErr)
		}
		return nil, goerr.Wrap(err, "verify bundle", goerr.V("archive", result.Archive))
	}
	result.Verified = method

	return result, nil
}

func (u *Updater) verify(ctx context.Context, archive string, opts FetchOptions) (VerificationMethod, error) {
	switch {
	case opts.Signature != "":
		sigPath, cleanup, err := u.signatureFile(ctx, opts.Signature, archive)
		if err != nil {
			return VerificationNone, fmt.Errorf("fetch signature: %v: %w", err, ErrVerification)
		}
		defer cleanup()
		if err := u.verifier.VerifySignature(archive, sigPath, opts.Keyring); err != nil {
			return VerificationNone, err
		}
		return VerificationGPG, nil

	case opts.SHA256 != "":
		if err := u.verifier.VerifySHA256(archive, opts.SHA256); err != nil {
			return VerificationNone, err
		}
		return VerificationSHA256, nil

	default:
		return VerificationNone, nil
	}
}

// signatureFile returns a local path for sig, downloading it next to the
// archive when it is a URL.
func (u *Updater) signatureFile(ctx context.Context, sig, archive string) (string, func(), error) {
	if !strings.HasPrefix(sig, "http://") && !strings.HasPrefix(sig, "https://") {
		return sig, func() {}, nil
	}
	dest := filepath.Join(filepath.Dir(archive), "."+filepath.Base(archive)+".sig")
	if err := u.downloader.DownloadToFile(ctx, sig, dest); err != nil {
		return "", nil, err
	}
	return dest, func() { os.Remove(dest) }, nil
}
