// Package wikipedia reads page summaries from the Wikipedia REST API.
package wikipedia

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/fetcher"
)

// ErrNotFound is returned when the page does not exist.
var ErrNotFound = eris.New("wikipedia: page not found")

// Client defines the Wikipedia operations.
type Client interface {
	// Summary fetches the summary of the page with the given title.
	Summary(ctx context.Context, title string) (*Summary, error)
}

// Summary is the subset of the page/summary response we use.
type Summary struct {
	Title         string `json:"title"`
	Extract       string `json:"extract"`
	Thumbnail     *Image `json:"thumbnail"`
	OriginalImage *Image `json:"originalimage"`
}

// Image is a page image rendition.
type Image struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageURL returns the thumbnail, falling back to the original image.
func (s *Summary) ImageURL() (string, string) {
	if s.Thumbnail != nil && s.Thumbnail.Source != "" {
		return s.Thumbnail.Source, "thumbnail"
	}
	if s.OriginalImage != nil && s.OriginalImage.Source != "" {
		return s.OriginalImage.Source, "original"
	}
	return "", ""
}

// Option configures the Wikipedia client.
type Option func(*client)

// WithBaseURL sets a custom REST base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

type client struct {
	f       fetcher.Fetcher
	baseURL string
}

// NewClient creates a Wikipedia client on top of f.
func NewClient(f fetcher.Fetcher, opts ...Option) Client {
	c := &client{f: f, baseURL: "https://it.wikipedia.org/api/rest_v1"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Summary(ctx context.Context, title string) (*Summary, error) {
	if strings.TrimSpace(title) == "" {
		return nil, eris.New("wikipedia: empty title")
	}
	page := url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	s, err := fetcher.GetJSON[Summary](ctx, c.f, c.baseURL+"/page/summary/"+page, nil)
	if err != nil {
		if fetcher.IsNotFound(err) {
			return nil, eris.Wrapf(ErrNotFound, "wikipedia: %s", title)
		}
		return nil, eris.Wrapf(err, "wikipedia: summary %s", title)
	}
	return s, nil
}
