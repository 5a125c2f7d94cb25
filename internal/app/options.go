package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/bundle"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/release"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0"

// UserAgent identifies HTTP requests.
func UserAgent() string {
	return "utilhub/" + Version
}

// DefaultTimeout bounds release resolution and platform detection.
const DefaultTimeout = 30 * time.Second

// Options are the process-level settings shared by every command.
type Options struct {
	Repo        string
	APIURL      string
	Token       string `masq:"secret"`
	BundleName  string
	DownloadDir string
	ExtractRoot string
	Tag         string
	Profile     string
	Timeout     time.Duration
}

// DefaultDownloadDir is ~/Downloads, or "Downloads" when there is no home.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

// Flags returns CLI flags for the bundle source and layout.
func (o *Options) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Release repository as owner/name",
			Value:       release.DefaultRepo,
			Destination: &o.Repo,
			Sources:     cli.EnvVars("UTILHUB_REPO"),
		},
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the release API",
			Value:       release.DefaultAPIURL,
			Destination: &o.APIURL,
			Sources:     cli.EnvVars("UTILHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "Optional API token",
			Destination: &o.Token,
			Sources:     cli.EnvVars("UTILHUB_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "bundle-name",
			Usage:       "Archive and directory name prefix",
			Value:       bundle.DefaultName,
			Destination: &o.BundleName,
			Sources:     cli.EnvVars("UTILHUB_BUNDLE_NAME"),
		},
		&cli.StringFlag{
			Name:        "download-dir",
			Usage:       "Directory holding downloaded archives",
			Value:       DefaultDownloadDir(),
			Destination: &o.DownloadDir,
			Sources:     cli.EnvVars("UTILHUB_DOWNLOAD_DIR"),
		},
		&cli.StringFlag{
			Name:        "extract-root",
			Usage:       "Directory receiving extracted bundles",
			Value:       os.TempDir(),
			Destination: &o.ExtractRoot,
			Sources:     cli.EnvVars("UTILHUB_EXTRACT_ROOT"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Use this release tag instead of asking the API",
			Destination: &o.Tag,
			Sources:     cli.EnvVars("UTILHUB_TAG"),
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Deployment profile (.lua or .toml)",
			Destination: &o.Profile,
			Sources:     cli.EnvVars("UTILHUB_PROFILE"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout for release resolution",
			Value:       DefaultTimeout,
			Destination: &o.Timeout,
			Sources:     cli.EnvVars("UTILHUB_TIMEOUT"),
		},
	}
}

// Layout returns the on-disk layout.
func (o *Options) Layout() bundle.Layout {
	return bundle.Layout{
		Name:        o.BundleName,
		DownloadDir: o.DownloadDir,
		ExtractRoot: o.ExtractRoot,
	}
}

// Resolver builds a release resolver for the configured repository.
func (o *Options) Resolver(logger *slog.Logger) (*release.Resolver, error) {
	src, err := release.ParseSource(o.Repo)
	if err != nil {
		return nil, err
	}
	opts := []release.Option{
		release.WithUserAgent(UserAgent()),
		release.WithLogger(logger),
	}
	if o.APIURL != "" {
		opts = append(opts, release.WithAPIURL(o.APIURL))
	}
	if o.Token != "" {
		opts = append(opts, release.WithToken(o.Token))
	}
	return release.NewResolver(src, opts...), nil
}

// Updater builds the archive updater used by the fetch command.
func (o *Options) Updater(logger *slog.Logger) (*bundle.Updater, error) {
	resolver, err := o.Resolver(logger)
	if err != nil {
		return nil, err
	}
	dl := bundle.NewDownloader().WithUserAgent(UserAgent())
	if o.Token != "" {
		dl = dl.WithToken(o.Token)
	}
	return bundle.NewUpdater(resolver, o.Layout(), dl, logger), nil
}
