// Package directory is the client for the remote service-directory API.
package directory

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hazz-dev/svcboard/internal/logging"
	"github.com/hazz-dev/svcboard/internal/metrics"
)

const servicesPath = "/v1/services"

// Client issues list, create, and delete calls against one directory.
// Calls are single-shot: no retries, and no timeout unless the HTTP client sets one.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
	metrics *metrics.Registry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// WithMetrics records every call in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Client) { c.metrics = reg }
}

// New creates a Client for the directory rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logging.OrNop(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the directory root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListServices returns the registered services in the order the server sent them.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	const op = "list"
	start := time.Now()

	body, status, err := c.do(ctx, op, http.MethodGet, c.baseURL+servicesPath, nil)
	if err != nil {
		c.observe(op, "network_error", start)
		return nil, err
	}
	if status >= 300 {
		c.logger.Warnw("directory returned non-2xx status", "op", op, "status", status)
	}

	var services []Service
	if err := json.Unmarshal(body, &services); err != nil {
		c.observe(op, "decode_error", start)
		return nil, decodeErr(op, fmt.Errorf("decoding service list: %w", err))
	}
	c.observe(op, "ok", start)
	return services, nil
}

// CreateService registers draft. The response status is not interpreted.
func (c *Client) CreateService(ctx context.Context, draft Draft) error {
	const op = "create"
	start := time.Now()

	payload, err := json.Marshal(draft)
	if err != nil {
		c.observe(op, "decode_error", start)
		return decodeErr(op, fmt.Errorf("encoding draft: %w", err))
	}

	_, status, err := c.do(ctx, op, http.MethodPost, c.baseURL+servicesPath, payload)
	if err != nil {
		c.observe(op, "network_error", start)
		return err
	}
	c.logStatus(op, status)
	c.observe(op, "ok", start)
	return nil
}

// DeleteService removes the service with the given id. The response status is not interpreted.
func (c *Client) DeleteService(ctx context.Context, id ID) error {
	const op = "delete"
	start := time.Now()

	target := c.baseURL + servicesPath + "/" + url.PathEscape(string(id))
	_, status, err := c.do(ctx, op, http.MethodDelete, target, nil)
	if err != nil {
		c.observe(op, "network_error", start)
		return err
	}
	c.logStatus(op, status)
	c.observe(op, "ok", start)
	return nil
}

// do sends one request and reads the whole response body.
func (c *Client) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, 0, networkErr(op, fmt.Errorf("creating request: %w", err))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, networkErr(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, networkErr(op, fmt.Errorf("reading response: %w", err))
	}

	c.logger.Debugw("directory call",
		"op", op,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
	)
	return body, resp.StatusCode, nil
}

// TODO: fail create/delete on non-2xx once the dashboard can surface mutation errors.
func (c *Client) logStatus(op string, status int) {
	if status >= 300 {
		c.logger.Warnw("directory returned non-2xx status", "op", op, "status", status)
	}
}

func (c *Client) observe(op, outcome string, start time.Time) {
	c.metrics.ObserveDirectory(op, outcome, time.Since(start))
}

type requestIDKey struct{}

// WithRequestID attaches id to ctx; the client forwards it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
