package wikipedia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossinienergy/citypages/internal/fetcher"
	"github.com/rossinienergy/citypages/internal/resilience"
)

func testFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Retry: resilience.RetryConfig{MaxAttempts: 1},
	})
}

func TestSummary(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page/summary/Sesto_San_Giovanni", r.URL.Path)
		w.Write([]byte(`{"title":"Sesto San Giovanni","extract":"Sesto San Giovanni è un comune.",
			"thumbnail":{"source":"https://upload.wikimedia.org/thumb.jpg","width":320,"height":240},
			"originalimage":{"source":"https://upload.wikimedia.org/full.jpg"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL+"/"))
	got, err := c.Summary(context.Background(), "Sesto San Giovanni")
	require.NoError(t, err)
	assert.Equal(t, "Sesto San Giovanni è un comune.", got.Extract)

	src, kind := got.ImageURL()
	assert.Equal(t, "https://upload.wikimedia.org/thumb.jpg", src)
	assert.Equal(t, "thumbnail", kind)
}

func TestSummary_OriginalImageFallback(t *testing.T) {
	t.Parallel()

	s := &Summary{OriginalImage: &Image{Source: "https://upload.wikimedia.org/full.jpg"}}
	src, kind := s.ImageURL()
	assert.Equal(t, "https://upload.wikimedia.org/full.jpg", src)
	assert.Equal(t, "original", kind)

	src, kind = (&Summary{Thumbnail: &Image{}}).ImageURL()
	assert.Empty(t, src)
	assert.Empty(t, kind)
}

func TestSummary_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL))
	_, err := c.Summary(context.Background(), "Paese Inesistente")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSummary_EscapesTitle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page/summary/Cant%C3%B9", r.URL.EscapedPath())
		w.Write([]byte(`{"title":"Cantù"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL))
	got, err := c.Summary(context.Background(), "Cantù")
	require.NoError(t, err)
	assert.Equal(t, "Cantù", got.Title)
}

func TestSummary_EmptyTitle(t *testing.T) {
	t.Parallel()

	_, err := NewClient(testFetcher()).Summary(context.Background(), " ")
	require.Error(t, err)
}
