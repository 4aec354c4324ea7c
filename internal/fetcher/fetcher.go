// Package fetcher is the paced, retrying HTTP transport shared by every
// remote data source.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes one remote call. A non-nil Form turns it into a
// form-encoded POST.
type Request struct {
	URL    string
	Query  url.Values
	Form   url.Values
	Accept string
}

// Fetcher executes requests and returns the response body.
type Fetcher interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: unexpected status %d from %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err carries a 404 response.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// GetJSON performs a GET and decodes the JSON body into T.
func GetJSON[T any](ctx context.Context, f Fetcher, rawURL string, query url.Values) (*T, error) {
	body, err := f.Do(ctx, Request{URL: rawURL, Query: query, Accept: "application/json"})
	if err != nil {
		return nil, err
	}
	return DecodeJSONObject[T](body)
}

// PostFormJSON performs a form POST and decodes the JSON body into T.
func PostFormJSON[T any](ctx context.Context, f Fetcher, rawURL string, form url.Values) (*T, error) {
	if form == nil {
		form = url.Values{}
	}
	body, err := f.Do(ctx, Request{URL: rawURL, Form: form, Accept: "application/json"})
	if err != nil {
		return nil, err
	}
	return DecodeJSONObject[T](body)
}
