package films

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher defines the operations the views need from the films backend.
// It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	ListFilms(ctx context.Context) ([]Film, error)
	AddFilm(ctx context.Context, film Film) (Film, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the films REST API.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
}

const (
	DefaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "flimmer/0.1"
	defaultTimeout   = 5 * time.Second
	filmsPath        = "/films"
	jsonContentType  = "application/json"

	retryCount   = 2
	retryWait    = 100 * time.Millisecond
	retryMaxWait = time.Second
)

// NewClient builds a Client for the backend rooted at baseURL. A zero timeout
// uses the default of five seconds.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(base.String()).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(retryIdempotent)
	return &Client{baseURL: base, http: rc}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListFilms retrieves the full films collection.
func (c *Client) ListFilms(ctx context.Context) ([]Film, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var items []Film
	resp, err := c.http.R().
		SetContext(ctx).
		ForceContentType(jsonContentType).
		SetResult(&items).
		Get(filmsPath)
	if err != nil {
		return nil, requestError(resp, err)
	}
	if resp.IsError() {
		return nil, &StatusError{Method: http.MethodGet, Path: filmsPath, StatusCode: resp.StatusCode()}
	}
	if items == nil {
		items = []Film{}
	}
	return items, nil
}

// AddFilm posts a new film and returns the stored representation. When the
// backend answers without a body the submitted film is returned unchanged.
func (c *Client) AddFilm(ctx context.Context, film Film) (Film, error) {
	if c == nil {
		return Film{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(film.Title) == "" {
		return Film{}, ErrEmptyTitle
	}
	var stored Film
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", jsonContentType).
		ForceContentType(jsonContentType).
		SetBody(film).
		SetResult(&stored).
		Post(filmsPath)
	if resp != nil && resp.IsSuccess() && len(bytes.TrimSpace(resp.Body())) == 0 {
		return film, nil
	}
	if err != nil {
		return Film{}, requestError(resp, err)
	}
	if resp.IsError() {
		return Film{}, &StatusError{Method: http.MethodPost, Path: filmsPath, StatusCode: resp.StatusCode()}
	}
	if stored.Title == "" {
		stored.Title = film.Title
	}
	return stored, nil
}

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e == nil {
		return "api status error"
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// requestError separates transport failures from bodies that did not decode.
func requestError(resp *resty.Response, err error) error {
	if resp != nil && resp.RawResponse != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return fmt.Errorf("execute request: %w", err)
}

// retryIdempotent retries GETs that failed in transport or with a 5xx status.
// A body that does not decode is not retried.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	if resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return resp.RawResponse == nil && resp.Request.Context().Err() == nil
	}
	return resp.StatusCode() >= http.StatusInternalServerError
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse backend base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
