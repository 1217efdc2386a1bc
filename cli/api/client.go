package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted healthchecks.io management API.
const DefaultBaseURL = "https://healthchecks.io/api/v1"

// Version is reported in the User-Agent header.
var Version = "dev"

// Getter performs a single authenticated GET against the API.
type Getter interface {
	Get(ctx context.Context, path string) (*Response, error)
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     Logger
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Logger: nopLogger{},
	}
}

// Response is whatever the server returned. JSON is nil when the body is
// empty, or when a non-2xx body could not be parsed.
type Response struct {
	StatusCode int
	Body       []byte
	JSON       any
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TransportError is returned when no usable response was received.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Get never fails on HTTP status codes; interpreting them is up to the caller.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	url := c.BaseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hcio/"+Version)

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger().Errorf("GET %s: %v", path, err)
		return nil, &TransportError{Path: path, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Path: path, Err: fmt.Errorf("reading body: %w", err)}
	}
	c.logger().Debugf("GET %s -> %d (%d bytes, %s)", path, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	r := &Response{StatusCode: resp.StatusCode, Body: body}
	if len(bytes.TrimSpace(body)) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(body, &r.JSON); err != nil {
		if r.OK() {
			return nil, &TransportError{Path: path, Err: fmt.Errorf("malformed response: %w", err)}
		}
		r.JSON = nil
	}
	return r, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}
