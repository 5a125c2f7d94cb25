package release

import (
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrNetwork covers transport failures, timeouts and non-2xx responses.
	ErrNetwork = errors.New("release endpoint unreachable")
	// ErrMalformedResponse means the body was not a release document.
	ErrMalformedResponse = errors.New("malformed release response")
)

// Tag is an opaque release identifier such as "v1.2.3".
type Tag string

// String returns the tag text.
func (t Tag) String() string {
	return string(t)
}

// Asset is a file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the subset of the release document the launcher reads.
type Release struct {
	TagName     Tag       `json:"tag_name"`
	Name        string    `json:"name"`
	ZipballURL  string    `json:"zipball_url"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// ArchiveURL returns the source zip URL of the release.
func (r *Release) ArchiveURL() (string, error) {
	if r.ZipballURL == "" {
		return "", goerr.Wrap(ErrMalformedResponse, "release has no zipball_url", goerr.V("tag", r.TagName))
	}
	return r.ZipballURL, nil
}

// Asset returns the attached file with the given name, if any.
func (r *Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}
