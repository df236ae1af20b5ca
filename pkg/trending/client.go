package trending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	httputil "github.com/ghtrending/ghtrending/pkg/http"
	"github.com/ghtrending/ghtrending/pkg/urlutils"
)

const (
	// DefaultBaseURL is the public trending data service
	DefaultBaseURL = "https://ghtrendingdata.birki.io"

	// DefaultPath is the resource path for star trends
	DefaultPath = "trends/stars"

	// DefaultSuffix is appended to the range key
	DefaultSuffix = ".json"
)

// ErrFetchFailed is the single failure condition of the feed client.
// Transport errors, non-2xx statuses and undecodable bodies all match it.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError carries the range and cause of a failed fetch. Callers should
// only test it with errors.Is(err, ErrFetchFailed).
type FetchError struct {
	Range Range
	URL   string
	Err   error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", e.Range, e.Err)
}

// Is makes every FetchError match ErrFetchFailed
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClientConfig configures where the feed documents live
type ClientConfig struct {
	BaseURL string
	Path    string
	Suffix  string
}

// DefaultClientConfig points at the public data service
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL: DefaultBaseURL,
		Path:    DefaultPath,
		Suffix:  DefaultSuffix,
	}
}

// Client fetches trending feed documents. It never retries, never caches and
// enforces no timeout of its own.
type Client struct {
	http   *httputil.Client
	config ClientConfig
}

// NewClient creates a feed client. Empty config fields fall back to the
// defaults; a nil http client gets a single-shot one.
func NewClient(config ClientConfig, httpClient *httputil.Client) (*Client, error) {
	defaults := DefaultClientConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Path == "" {
		config.Path = defaults.Path
	}
	if config.Suffix == "" {
		config.Suffix = defaults.Suffix
	}

	if !urlutils.IsValidURL(config.BaseURL) {
		return nil, fmt.Errorf("invalid feed base URL: %q", config.BaseURL)
	}

	if httpClient == nil {
		httpClient = httputil.NewClient(httputil.SingleShotConfig())
	}

	return &Client{http: httpClient, config: config}, nil
}

// URL builds {base}/{path}/{range}{suffix}
func (c *Client) URL(r Range) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/" +
		strings.Trim(c.config.Path, "/") + "/" +
		r.Key() + c.config.Suffix
}

// FetchTrending performs one GET for the range and decodes the JSON array.
// Every failure is reported as a *FetchError.
func (c *Client) FetchTrending(ctx context.Context, r Range) ([]Entry, error) {
	if !r.Valid() {
		return nil, &FetchError{Range: r, Err: fmt.Errorf("%w: %d", ErrUnknownRange, int(r))}
	}

	url := c.URL(r)
	slog.Debug("Fetching trending feed", "range", r, "url", url)

	resp, err := c.http.GetWithContext(ctx, url, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return nil, &FetchError{Range: r, URL: url, Err: err}
	}

	var entries []Entry
	if err := httputil.DecodeJSONResponse(resp, &entries); err != nil {
		return nil, &FetchError{Range: r, URL: url, Err: err}
	}

	slog.Debug("Fetched trending feed", "range", r, "count", len(entries))
	return entries, nil
}
