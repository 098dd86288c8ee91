// Package transport performs single HTTP request/response cycles against the
// planner API with consistent error normalization. It does not retry; retry
// policy belongs to the caller.
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// RequestError is a failed request. Message carries the best available
// human-readable explanation: a structured detail/message field from the
// response body, else the raw body text, else the status line.
type RequestError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap maps well-known statuses onto sentinel errors so callers can use
// errors.Is without inspecting status codes.
func (e *RequestError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// URLBuilder turns a request path into a full URL. *endpoint.Resolver
// satisfies this.
type URLBuilder interface {
	BuildURL(path string) string
}

// Options configure a single request.
type Options struct {
	Method  string // default GET
	Body    any    // serialized as JSON only when non-nil
	Headers map[string]string
}

// Client issues requests with cookie-based session credentials and, when a
// token supplier is set, a bearer header for deployments that still expect
// one. Which mechanism the backend honors is its business; we always send
// what we have.
type Client struct {
	builder  URLBuilder
	token    func() string
	clientID func() string
	http     *http.Client
}

// New creates a client. token may be nil.
func New(builder URLBuilder, token func() string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		builder: builder,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
}

// SetClientID registers a supplier for the X-Client-Id header, identifying
// this install on every request.
func (c *Client) SetClientID(fn func() string) {
	c.clientID = fn
}

// apiBody is the error shape the backend uses ({detail} or {message}).
type apiBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
}

// Request performs one request/response cycle and returns the raw response
// body. A non-2xx status always fails with *RequestError; a 2xx with an
// unparseable body is not an error; the raw bytes are returned as-is.
func (c *Client) Request(path string, opts Options) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.builder.BuildURL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if c.clientID != nil {
		if id := c.clientID(); id != "" {
			req.Header.Set("X-Client-Id", id)
		}
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: bestMessage(respBody, resp.Status),
			Body:    respBody,
		}
	}
	return respBody, nil
}

// bestMessage extracts the most useful error text from a response body.
func bestMessage(body []byte, statusLine string) string {
	var parsed apiBody
	if json.Unmarshal(body, &parsed) == nil {
		if msg := rawToString(parsed.Detail); msg != "" {
			return msg
		}
		if msg := rawToString(parsed.Message); msg != "" {
			return msg
		}
	}
	if txt := string(bytes.TrimSpace(body)); txt != "" {
		return txt
	}
	return statusLine
}

// rawToString renders a detail field that may be a string or a structured
// validation payload.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// GetJSON issues a GET and decodes the JSON response into out. out may be
// nil to discard the body.
func (c *Client) GetJSON(path string, out any) error {
	return c.JSON(path, Options{}, out)
}

// PostJSON issues a POST with an optional JSON body and decodes the response.
func (c *Client) PostJSON(path string, body, out any) error {
	return c.JSON(path, Options{Method: http.MethodPost, Body: body}, out)
}

// PatchJSON issues a PATCH with a JSON body and decodes the response.
func (c *Client) PatchJSON(path string, body, out any) error {
	return c.JSON(path, Options{Method: http.MethodPatch, Body: body}, out)
}

// JSON performs a request and unmarshals the response into out when both out
// and the body are non-empty.
func (c *Client) JSON(path string, opts Options, out any) error {
	body, err := c.Request(path, opts)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
