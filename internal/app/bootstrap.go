package app

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/browser"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/bundle"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/config"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/platform"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/profile"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/release"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/settings"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/shell"
)

// TagResolver returns the newest release tag.
type TagResolver interface {
	LatestTag(ctx context.Context) (release.Tag, error)
}

// Deps replaces the collaborators Bootstrap would otherwise build from
// Options. Zero fields use the real implementations.
type Deps struct {
	Resolver TagResolver
	Detector platform.Detector
	Launcher shell.Launcher
}

// Session is everything a front end needs after a successful startup.
type Session struct {
	Tag      release.Tag
	Bundle   *bundle.Result
	Store    *config.Store
	Config   *config.Config
	Profile  profile.Options
	Platform *platform.Info
	Browser  *browser.Browser
	Editor   *settings.Editor
}

// Bootstrap runs the startup sequence. Every error it returns is fatal.
func Bootstrap(ctx context.Context, opts Options, deps Deps, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("bootstrap", "options", opts)

	tag, err := resolveTag(ctx, opts, deps, logger)
	if err != nil {
		return nil, err
	}

	m, err := bundle.NewMaterializer(opts.Layout(), logger)
	if err != nil {
		return nil, goerr.Wrap(err, "configure bundle layout")
	}
	res, err := m.Materialize(ctx, tag)
	if err != nil {
		return nil, err
	}
	logger.Info("bundle ready", "tag", tag, "dir", res.Dir, "extracted", res.Extracted)

	store := config.StoreIn(res.Dir, logger)
	cfg, err := store.LoadOrInit()
	if err != nil {
		return nil, err
	}

	detector := deps.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}
	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "detect platform")
	}

	prof := profile.Default(info.OS)
	if opts.Profile != "" {
		prof, err = profile.NewLoader(detector).Load(ctx, opts.Profile)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("deployment profile", "profile", prof)

	launcher := deps.Launcher
	if launcher == nil {
		spawner, err := shell.NewSpawner(shell.SpawnerConfig{
			Platform:    info,
			Shell:       shell.DetectShell(ctx, info.OS),
			Interpreter: prof.Interpreter,
			Logger:      logger,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "configure process spawner")
		}
		launcher = spawner
	}

	b, err := browser.New(res.Dir, prof, launcher, logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		Tag:      tag,
		Bundle:   res,
		Store:    store,
		Config:   cfg,
		Profile:  prof,
		Platform: info,
		Browser:  b,
		Editor:   settings.NewEditor(cfg, store, nil, logger),
	}, nil
}

func resolveTag(ctx context.Context, opts Options, deps Deps, logger *slog.Logger) (release.Tag, error) {
	if opts.Tag != "" {
		logger.Debug("using pinned tag", "tag", opts.Tag)
		return release.Tag(opts.Tag), nil
	}

	resolver := deps.Resolver
	if resolver == nil {
		r, err := opts.Resolver(logger)
		if err != nil {
			return "", goerr.Wrap(err, "configure release source")
		}
		resolver = r
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tag, err := resolver.LatestTag(ctx)
	if err != nil {
		return "", err
	}
	logger.Info("latest release", "tag", tag, "repo", opts.Repo)
	return tag, nil
}
