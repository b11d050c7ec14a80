// Package api is the HTTP client adapter for the AcademiaConnect backend.
// It wraps every outbound request with the configured base URL, a JSON
// content type and, when a token is available, bearer authorization. The
// exposed service groups (Auth, Faculty, Students, Collaboration) mirror
// the backend's route groups.
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

	"github.com/google/uuid"

	"acadconnect/internal/logging"
)

// DefaultBaseURL is used when no endpoint is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const defaultTimeout = 15 * time.Second

// TokenSource returns the bearer token to attach to outgoing requests.
// An empty return means no Authorization header is sent.
type TokenSource func() string

// Client is the shared HTTP adapter. All service groups route through
// its do method, so auth, correlation IDs and error mapping live in one
// place.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	Auth          *AuthService
	Faculty       *FacultyService
	Students      *StudentService
	Collaboration *CollaborationService
}

// New creates a client for the given base endpoint. tokens may be nil
// for a purely anonymous client.
func New(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	c.Auth = &AuthService{c: c}
	c.Faculty = &FacultyService{c: c}
	c.Students = &StudentService{c: c}
	c.Collaboration = &CollaborationService{c: c}
	return c
}

// SetTimeout adjusts the per-request timeout (config api.timeout).
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// SetTokenSource replaces the token source. The session store calls this
// once during bootstrap so every later request picks up the live token.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// BaseURL returns the configured base endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// errEnvelope is the failure body shape the backend uses everywhere:
// {"success": false, "message": "..."}.
type errEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do issues one request. body is JSON-marshalled when non-nil; out is
// JSON-unmarshalled from a 2xx response body when non-nil. Failures are
// mapped to the package error taxonomy and logged under the api
// category.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logging.APIDebug("[%s] %s %s", reqID, method, path)
	t := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	resp, err := c.http.Do(req)
	t.Stop()
	if err != nil {
		logging.APIError("[%s] %s %s: %v", reqID, method, path, err)
		return &ConnectionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(data)
		logging.APIError("[%s] %s %s -> %d: %s", reqID, method, path, resp.StatusCode, msg)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", msg, ErrNotFound)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
		default:
			return &APIError{Status: resp.StatusCode, Message: msg}
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the backend's message field from an error body,
// falling back to a generic description.
func serverMessage(body []byte) string {
	var env errEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return "request failed"
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}
