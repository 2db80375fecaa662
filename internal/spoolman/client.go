package spoolman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API defines the SpoolmanSync operations used by spoolsync.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	FetchPrinters(ctx context.Context) ([]Printer, error)
	FetchSpools(ctx context.Context) ([]Spool, error)
	CheckConnection(ctx context.Context) error
	AssignSpool(ctx context.Context, spoolID int64, trayID string) error
	UnassignSpool(ctx context.Context, spoolID int64) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// DefaultURL is offered by the setup form.
const DefaultURL = "http://192.168.0.34:3000"

const (
	defaultUserAgent = "spoolsync/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10

	pathPrinters = "/api/printers"
	pathSpools   = "/api/spools"
	pathSettings = "/api/settings"
)

// StatusError reports a response with a status other than 200.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the SpoolmanSync HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchPrinters retrieves every printer with its AMS units and trays.
func (c *Client) FetchPrinters(ctx context.Context) ([]Printer, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload PrintersResponse
	if err := c.do(ctx, http.MethodGet, pathPrinters, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch printers: %w", err)
	}
	return payload.Printers, nil
}

// FetchSpools retrieves the spool inventory.
func (c *Client) FetchSpools(ctx context.Context) ([]Spool, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SpoolsResponse
	if err := c.do(ctx, http.MethodGet, pathSpools, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch spools: %w", err)
	}
	return payload.Spools, nil
}

// CheckConnection probes the settings endpoint. It is only used to confirm
// that the server is reachable.
func (c *Client) CheckConnection(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, pathSettings, nil, nil)
}

type assignRequest struct {
	SpoolID int64  `json:"spoolId"`
	TrayID  string `json:"trayId"`
}

type unassignRequest struct {
	SpoolID int64 `json:"spoolId"`
}

// AssignSpool places a spool in a tray.
func (c *Client) AssignSpool(ctx context.Context, spoolID int64, trayID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, pathSpools, assignRequest{SpoolID: spoolID, TrayID: trayID}, nil)
}

// UnassignSpool removes a spool from whichever tray holds it.
func (c *Client) UnassignSpool(ctx context.Context, spoolID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, pathSpools, unassignRequest{SpoolID: spoolID}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(text)),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// endpoint appends path to the base URL, keeping any path prefix the server
// is mounted under.
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// ParseBaseURL normalizes a user-supplied server address. A missing scheme
// defaults to http and trailing slashes are dropped.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
