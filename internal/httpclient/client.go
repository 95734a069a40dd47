package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/arismemo/quotation/internal/config"
	"github.com/arismemo/quotation/internal/messages"
	"github.com/arismemo/quotation/internal/metrics"
)

// RequestOptions tunes a single call. JSON takes precedence over Body and is
// sent with an application/json content type.
type RequestOptions struct {
	Method        string
	Header        http.Header
	JSON          any
	Body          io.Reader
	ContentLength int64
	Timeout       time.Duration
}

type Client struct {
	client  *http.Client
	baseURL *url.URL
	cache   *ResponseCache
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

// New creates a client. Relative URLs are resolved against baseURL, a zero
// timeout means config.RequestTimeout, a nil cache disables caching and a nil
// logger discards logs.
func New(
	client *http.Client,
	baseURL *url.URL,
	cache *ResponseCache,
	timeout time.Duration,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = config.RequestTimeout
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Client{client, baseURL, cache, timeout, m, logger}
}

func (c *Client) loggerFor(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return c.logger
	}
	return logger
}

func (c *Client) resolve(target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if c.baseURL != nil {
		parsed = c.baseURL.ResolveReference(parsed)
	}
	return parsed.String(), nil
}

// Request performs exactly one network call and decodes the JSON answer into
// out. A nil out discards the body.
func (c *Client) Request(ctx context.Context, target string, opts RequestOptions, out any) error {
	resolved, err := c.resolve(target)
	if err != nil {
		return newNetworkError(err)
	}

	payload, err := c.do(ctx, resolved, opts)
	if err != nil {
		return err
	}
	return decode(payload, out)
}

// Get serves fresh cached bodies without touching the network when useCache
// is set, and stores successful answers otherwise. The cache key is the
// resolved URL alone.
func (c *Client) Get(ctx context.Context, target string, useCache bool, out any) error {
	resolved, err := c.resolve(target)
	if err != nil {
		return newNetworkError(err)
	}

	if !useCache || c.cache == nil {
		payload, err := c.do(ctx, resolved, RequestOptions{Method: http.MethodGet})
		if err != nil {
			return err
		}
		return decode(payload, out)
	}

	payload, result := c.cache.Lookup(resolved)
	c.metrics.CacheLookups.WithLabelValues(string(result)).Inc()
	if result == LookupHit {
		c.loggerFor(ctx).Debug().Str("url", resolved).Msg("Serving response from cache")
		return decode(payload, out)
	}

	payload, err = c.do(ctx, resolved, RequestOptions{Method: http.MethodGet})
	if err != nil {
		return err
	}
	if err := decode(payload, out); err != nil {
		return err
	}

	c.cache.Store(resolved, payload)
	return nil
}

func (c *Client) Post(ctx context.Context, target string, body any, out any) error {
	return c.Request(ctx, target, RequestOptions{Method: http.MethodPost, JSON: body}, out)
}

// PostWithTimeout is Post with a per-call timeout, for long running endpoints.
func (c *Client) PostWithTimeout(
	ctx context.Context,
	target string,
	body any,
	timeout time.Duration,
	out any,
) error {
	return c.Request(
		ctx,
		target,
		RequestOptions{Method: http.MethodPost, JSON: body, Timeout: timeout},
		out,
	)
}

func (c *Client) Put(ctx context.Context, target string, body any, out any) error {
	return c.Request(ctx, target, RequestOptions{Method: http.MethodPut, JSON: body}, out)
}

func (c *Client) Delete(ctx context.Context, target string, out any) error {
	return c.Request(ctx, target, RequestOptions{Method: http.MethodDelete}, out)
}

// ClearCache evicts every cached response.
func (c *Client) ClearCache() {
	if c.cache == nil {
		return
	}
	if err := c.cache.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("unable to clear the response cache")
	}
}

func (c *Client) do(parent context.Context, target string, opts RequestOptions) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	body := opts.Body
	contentLength := opts.ContentLength
	if opts.JSON != nil {
		encoded, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, c.record(method, 0, newEncodeError(err))
		}
		body = bytes.NewReader(encoded)
		contentLength = int64(len(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, c.record(method, 0, newNetworkError(err))
	}
	for key, values := range opts.Header {
		req.Header[key] = values
	}
	if opts.JSON != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if contentLength > 0 {
		req.ContentLength = contentLength
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.record(method, time.Since(start), classify(parent, ctx, err))
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, c.record(method, duration, classify(parent, ctx, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.record(
			method,
			duration,
			newStatusError(resp.StatusCode, extractMessage(payload, resp.StatusCode)),
		)
	}

	if len(bytes.TrimSpace(payload)) > 0 && !json.Valid(payload) {
		return nil, c.record(method, duration, newDecodeError(errors.New("response is not valid JSON")))
	}

	return payload, c.record(method, duration, nil)
}

func (c *Client) record(method string, duration time.Duration, err *Error) error {
	outcome := "success"
	if err != nil {
		outcome = err.Kind.String()
	}

	c.metrics.Requests.WithLabelValues(method, outcome).Inc()
	if duration > 0 {
		c.metrics.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	}

	if err == nil {
		return nil
	}
	return err
}

// classify tells a caller cancellation from our own deadline and from plain
// transport failures.
func classify(parent, ctx context.Context, err error) *Error {
	if errors.Is(parent.Err(), context.Canceled) {
		return newCanceledError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newTimeoutError(err)
	}
	return newNetworkError(err)
}

func extractMessage(payload []byte, status int) string {
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err == nil {
		for _, field := range []string{"detail", "message"} {
			if msg, ok := body[field].(string); ok && msg != "" {
				return msg
			}
		}
	}

	if msg, ok := messages.ForStatus(status); ok {
		return msg
	}
	return messages.Get(messages.ServerError)
}

func decode(payload []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return newDecodeError(err)
	}
	return nil
}
