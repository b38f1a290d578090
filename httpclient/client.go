package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client issues one request per call. Nothing is retried or cached.
type Client struct {
	hc  *http.Client
	cfg  Config
}

// New validates cfg, after defaults, and builds a client on a clone of the
// default transport.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Client{
		hc:  &http.Client{Transport: transport, Timeout: cfg.Timeout},
		cfg:  cfg,
	}, nil
}

// Fetch GETs url and returns the body of a 2xx response.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: url})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Do sends req and reads the whole body. A non-2xx response is returned
// along with its classified *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := c.readBody(ctx, resp.Body)
	if err != nil {
		return nil, err
	}
	out := &Response{StatusCode: resp.StatusCode, Headers: firstValues(resp.Header), Body: body}
	if e := ClassifyStatusCode(resp.StatusCode, body); e != nil {
		return out, e
	}
	return out, nil
}

// readBody reads at most MaxBodyBytes and fails on anything longer.
func (c *Client) readBody(ctx context.Context, r io.Reader) ([]byte, error) {
	limit := c.cfg.MaxBodyBytes
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, NewTooLargeError(limit)
	}
	return body, nil
}

// transportError classifies a failure that left no usable response.
func transportError(ctx context.Context, err error) *Error {
	var te interface{ Timeout() bool }
	if ctx.Err() != nil || (errors.As(err, &te) && te.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.resolve(req.Path), nil)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	h := httpReq.Header
	h.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		h.Set("User-Agent", c.cfg.UserAgent)
	}
	for _, headers := range []map[string]string{c.cfg.Headers, req.Headers} {
		for k, v := range headers {
			h.Set(k, v)
		}
	}
	return httpReq, nil
}

// resolve joins a relative path onto BaseURL. Absolute URLs pass through.
func (c *Client) resolve(path string) string {
	if c.cfg.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func firstValues(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
