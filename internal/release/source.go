package release

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultAPIURL is the public GitHub REST API base.
	DefaultAPIURL = "https://api.github.com"
	// DefaultRepo is the repository that publishes the script bundle.
	DefaultRepo = "Stari-Div/Python-Utilities"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Source identifies a repository publishing releases.
type Source struct {
	Owner string
	Repo  string
}

// ParseSource parses "owner/repo".
func ParseSource(s string) (Source, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Source{}, fmt.Errorf("invalid repository %q: expected owner/repo", s)
	}
	src := Source{Owner: owner, Repo: repo}
	if err := src.Validate(); err != nil {
		return Source{}, err
	}
	return src, nil
}

// Validate checks both components contain only characters GitHub accepts.
func (s Source) Validate() error {
	if !namePattern.MatchString(s.Owner) || s.Owner == "." || s.Owner == ".." {
		return fmt.Errorf("invalid repository owner %q", s.Owner)
	}
	if !namePattern.MatchString(s.Repo) || s.Repo == "." || s.Repo == ".." {
		return fmt.Errorf("invalid repository name %q", s.Repo)
	}
	return nil
}

// String returns "owner/repo".
func (s Source) String() string {
	return s.Owner + "/" + s.Repo
}

// LatestURL builds the latest-release endpoint under api.
func (s Source) LatestURL(api string) (string, error) {
	base, err := url.Parse(strings.TrimRight(api, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("unsupported api url scheme %q", base.Scheme)
	}
	return base.JoinPath("repos", s.Owner, s.Repo, "releases", "latest").String(), nil
}
