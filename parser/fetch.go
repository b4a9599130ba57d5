package parser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/apimfix"
	"github.com/erraggy/apimfix/oaserrors"
)

// DefaultHTTPTimeout is the timeout of the client created when none is given.
const DefaultHTTPTimeout = 30 * time.Second

// Fetcher retrieves the raw bytes stored at an absolute location (URL or
// file path). Failures should be reported as *oaserrors.TransportError.
type Fetcher func(location string) ([]byte, error)

// NewHTTPFetcher returns a Fetcher that issues GET requests through client.
// The same client is used for every request so connections are reused.
// A nil client gets DefaultHTTPTimeout; an empty userAgent gets the module default.
func NewHTTPFetcher(client *http.Client, userAgent string) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout, Transport: newTransport()}
	}
	if userAgent == "" {
		userAgent = apimfix.UserAgent()
	}
	return func(location string) ([]byte, error) {
		req, err := http.NewRequest(http.MethodGet, location, nil)
		if err != nil {
			return nil, &oaserrors.TransportError{Location: location, Message: "invalid request", Cause: err}
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json, application/yaml, */*")

		resp, err := client.Do(req) //nolint:gosec // location comes from the document being bundled
		if err != nil {
			return nil, &oaserrors.TransportError{Location: location, Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, &oaserrors.TransportError{
				Location:   location,
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
			}
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &oaserrors.TransportError{Location: location, Message: "failed to read response body", Cause: err}
		}
		return data, nil
	}
}

// NewFileFetcher returns a Fetcher that reads from the local filesystem.
func NewFileFetcher() Fetcher {
	return func(location string) ([]byte, error) {
		data, err := os.ReadFile(location) //nolint:gosec // location comes from the document being bundled
		if err != nil {
			msg := "failed to read file"
			if errors.Is(err, fs.ErrNotExist) {
				msg = "file not found"
			}
			return nil, &oaserrors.TransportError{Location: location, Message: msg, Cause: err}
		}
		return data, nil
	}
}

// NewDefaultFetcher dispatches http(s) locations to an HTTP fetcher and
// everything else to the filesystem.
func NewDefaultFetcher(client *http.Client, userAgent string) Fetcher {
	httpFetch := NewHTTPFetcher(client, userAgent)
	fileFetch := NewFileFetcher()
	return func(location string) ([]byte, error) {
		if isURL(location) {
			return httpFetch(location)
		}
		return fileFetch(location)
	}
}

// MapFetcher serves documents from memory, keyed by absolute location.
// Unknown locations fail like an HTTP 404.
func MapFetcher(docs map[string]string) Fetcher {
	return func(location string) ([]byte, error) {
		content, ok := docs[location]
		if !ok {
			return nil, &oaserrors.TransportError{
				Location:   location,
				StatusCode: http.StatusNotFound,
				Message:    fmt.Sprintf("no document registered for %s", location),
			}
		}
		return []byte(content), nil
	}
}

// newTransport returns a connection pool owned by a single fetcher.
func newTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	return http.DefaultTransport
}
