package release

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTimeout bounds a single resolve call.
	DefaultTimeout = 30 * time.Second

	maxBodySize = 4 << 20
)

// Resolver queries the latest-release endpoint of a Source.
type Resolver struct {
	client    *http.Client
	source    Source
	apiURL    string
	token     string
	userAgent string
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAPIURL overrides the API base URL.
func WithAPIURL(api string) Option {
	return func(r *Resolver) { r.apiURL = api }
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(r *Resolver) { r.token = token }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) { r.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver for src.
func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		client:    &http.Client{Timeout: DefaultTimeout},
		source:    src,
		apiURL:    DefaultAPIURL,
		userAgent: "utilhub",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// LatestTag returns the tag of the newest published release.
func (r *Resolver) LatestTag(ctx context.Context) (Tag, error) {
	rel, err := r.Latest(ctx)
	if err != nil {
		return "", err
	}
	return rel.TagName, nil
}

// Latest fetches and decodes the newest release document.
func (r *Resolver) Latest(ctx context.Context) (*Release, error) {
	endpoint, err := r.source.LatestURL(r.apiURL)
	if err != nil {
		return nil, goerr.Wrap(ErrNetwork, err.Error(), goerr.V("api", r.apiURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(ErrNetwork, "create request", goerr.V("url", endpoint), goerr.V("cause", err.Error()))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", r.userAgent)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	r.logger.Debug("resolving latest release", "source", r.source.String(), "url", endpoint)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(ErrNetwork, "request latest release", goerr.V("url", endpoint), goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, goerr.Wrap(ErrNetwork, "unexpected status from release endpoint",
			goerr.V("url", endpoint),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(snippet))))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, goerr.Wrap(ErrNetwork, "read release body", goerr.V("url", endpoint), goerr.V("cause", err.Error()))
	}

	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "decode release document", goerr.V("cause", err.Error()))
	}
	rel.TagName = Tag(strings.TrimSpace(string(rel.TagName)))
	if rel.TagName == "" {
		return nil, goerr.Wrap(ErrMalformedResponse, "release document has no tag_name", goerr.V("url", endpoint))
	}

	r.logger.Info("resolved latest release", "tag", rel.TagName, "published_at", rel.PublishedAt)
	return &rel, nil
}
