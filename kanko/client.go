package kanko

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/kanko/errors"
	"github.com/kbukum/kanko/httpclient"
	"github.com/kbukum/kanko/jsonval"
	"github.com/kbukum/kanko/logger"
	"github.com/kbukum/kanko/observability"
	"github.com/kbukum/kanko/paging"
)

// ComponentName tags the client's log lines, metrics and logger binding.
const ComponentName = "kanko"

// Fetcher retrieves the body at an absolute URL. *httpclient.Client and
// *httpclient.Component implement it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Count is the number of spots a category holds.
type Count struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}

// Client reads category counts and spot pages. Each call issues exactly one
// request; nothing is cached or retried.
type Client struct {
	fetcher  Fetcher
	endpoint Endpoint
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records fetch durations and failures on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client that fetches through f.
func NewClient(f Fetcher, endpoint Endpoint, opts ...Option) *Client {
	c := &Client{
		fetcher:  f,
		endpoint: endpoint.withDefaults(),
		log:      logger.Get(ComponentName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the endpoint the client builds URLs from.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Count asks how many spots category holds. A response without a count
// member reports zero.
func (c *Client) Count(ctx context.Context, category string) (result Count, err error) {
	u := c.endpoint.CountURL(category)
	ctx, op := observability.StartOperation(ctx, observability.SpanKankoCount, "count", c.metrics,
		attribute.String(observability.AttrCategory, category),
		attribute.String(observability.AttrURL, u),
	)
	defer func() { op.End(ctx, ComponentName, err) }()

	body, appErr := c.fetch(ctx, u)
	if appErr != nil {
		return Count{}, appErr.WithDetail("category", category)
	}

	total := 0
	if v := body.Get("count"); v.Exists() {
		n, ok := v.Int()
		if !ok {
			return Count{}, errors.Decode(u, fmt.Errorf("count is not an integer: %s", v)).
				WithDetail("category", category)
		}
		total = int(n)
	} else {
		c.log.WithContext(ctx).Warn("count missing from response", logger.Fields(
			logger.FieldCategory, category,
			logger.FieldURL, u,
		))
	}

	op.SetAttributes(attribute.Int(observability.AttrTotal, total))
	return Count{Category: category, Total: total}, nil
}

// Spots fetches one page and returns its raw records in response order.
// A response without a tourspots member is an empty page.
func (c *Client) Spots(ctx context.Context, page paging.Page) (records []jsonval.Value, err error) {
	u := c.endpoint.PageURL(page)
	ctx, op := observability.StartOperation(ctx, observability.SpanKankoPage, "page", c.metrics,
		attribute.String(observability.AttrCategory, page.Category),
		attribute.Int(observability.AttrOffset, page.Offset),
		attribute.Int(observability.AttrLimit, page.Limit),
		attribute.String(observability.AttrURL, u),
	)
	defer func() { op.End(ctx, ComponentName, err) }()

	body, appErr := c.fetch(ctx, u)
	if appErr != nil {
		return nil, appErr.WithDetails(pageDetails(page))
	}

	spots := body.Get("tourspots")
	switch spots.Kind() {
	case jsonval.Array:
		records, _ = spots.Array()
	case jsonval.Absent, jsonval.Null:
		c.log.WithContext(ctx).Warn("tourspots missing from response", logger.Fields(
			logger.FieldCategory, page.Category,
			logger.FieldOffset, page.Offset,
			logger.FieldURL, u,
		))
	default:
		return nil, errors.Decode(u, fmt.Errorf("tourspots is a %s, not an array", spots.Kind())).
			WithDetails(pageDetails(page))
	}

	c.log.WithContext(ctx).Debug("page fetched", logger.Fields(
		logger.FieldCategory, page.Category,
		logger.FieldOffset, page.Offset,
		logger.FieldLimit, page.Limit,
		logger.FieldCount, len(records),
	))
	op.SetAttributes(attribute.Int(observability.AttrRecords, len(records)))
	return records, nil
}

// fetch retrieves and decodes one JSON document.
func (c *Client) fetch(ctx context.Context, u string) (jsonval.Value, *errors.AppError) {
	data, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		appErr := errors.Transport(u, err)
		appErr.Retryable = httpclient.IsRetryable(err)
		if code := httpclient.StatusCode(err); code != 0 {
			appErr.WithDetail("status", code)
		}
		if h := failureHint(err); h != "" {
			appErr.WithDetail("hint", h)
		}
		return jsonval.Value{}, appErr
	}
	body, err := jsonval.Decode(data)
	if err != nil {
		return jsonval.Value{}, errors.Decode(u, err)
	}
	return body, nil
}

// failureHint points an operator at the setting most likely behind a failed
// request.
func failureHint(err error) string {
	switch {
	case httpclient.IsTimeout(err):
		return "remote did not answer within extract.timeout"
	case httpclient.IsConnection(err):
		return "check extract.base_url and network access"
	case httpclient.IsNotFound(err):
		return "category, api_version or format is not served by the remote"
	case httpclient.IsServerError(err):
		return "remote API is failing; rerun later"
	default:
		return ""
	}
}

func pageDetails(p paging.Page) map[string]any {
	return map[string]any{
		"category": p.Category,
		"offset":   p.Offset,
		"limit":    p.Limit,
	}
}
