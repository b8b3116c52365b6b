package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Bahjat/project-tasks-web/internal/platform/errs"
	"github.com/Bahjat/project-tasks-web/internal/platform/metrics"
	"github.com/Bahjat/project-tasks-web/internal/platform/requestid"
)

const (
	userAgent         = "ProjectTasksWeb/1.0"
	defaultAuthScheme = "Bearer"

	// maxResponseBody caps how much of a response is read into memory.
	maxResponseBody = 10 << 20 // 10 MB
)

// Request describes one call to the remote API. Path is relative to the
// configured base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Doer performs API calls. Failures are *errs.ResponseFailure when the API
// answered with an error status, *errs.NetworkFailure when no response
// arrived, and plain errors otherwise.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

// Config configures the transport.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the remote REST API. A Client holds no credentials; use
// WithToken to bind one session's token.
type Client struct {
	rc     *resty.Client
	logger *slog.Logger
}

// New returns a Client for the API at cfg.BaseURL.
func New(cfg Config, logger *slog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetResponseBodyLimit(maxResponseBody).
		SetDisableWarn(true)

	return &Client{rc: rc, logger: logger}
}

// Do performs an unauthenticated call.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	return c.do(ctx, req, out, "", "")
}

// WithToken returns a Doer that sends the given credentials with every call.
// An empty token type means Bearer.
func (c *Client) WithToken(tokenType, token string) Doer {
	if tokenType == "" {
		tokenType = defaultAuthScheme
	}
	return &authorized{client: c, scheme: tokenType, token: token}
}

type authorized struct {
	client *Client
	scheme string
	token  string
}

func (a *authorized) Do(ctx context.Context, req Request, out any) error {
	return a.client.do(ctx, req, out, a.scheme, a.token)
}

func (c *Client) do(ctx context.Context, req Request, out any, scheme, token string) error {
	r := c.rc.R().SetContext(ctx)

	if id := requestid.FromContext(ctx); id != "" {
		r.SetHeader(requestid.Header, id)
	}
	if token != "" {
		r.SetAuthScheme(scheme).SetAuthToken(token)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	route := RouteLabel(req.Path)
	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	elapsed := time.Since(start)
	metrics.APILatency.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())

	logger := c.logger.With(
		"method", req.Method,
		"path", req.Path,
		"duration", elapsed.String(),
		"request_id", requestid.FromContext(ctx),
	)

	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		metrics.APIRequestsTotal.WithLabelValues(req.Method, route, "body_too_large").Inc()
		logger.Warn("api response exceeds size limit", "limit", maxResponseBody)
		return fmt.Errorf("%s %s: response larger than %d bytes", req.Method, req.Path, maxResponseBody)
	}
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(req.Method, route, "network_error").Inc()
		logger.Debug("api call got no response", "error", err)
		return &errs.NetworkFailure{Method: req.Method, Path: req.Path, Cause: err}
	}

	status := resp.StatusCode()
	if status >= http.StatusBadRequest {
		metrics.APIRequestsTotal.WithLabelValues(req.Method, route, "response_error").Inc()
		logger.Debug("api call failed", "status", status)
		return &errs.ResponseFailure{
			Method: req.Method,
			Path:   req.Path,
			Status: status,
			Body:   resp.Body(),
		}
	}

	body := resp.Body()
	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			metrics.APIRequestsTotal.WithLabelValues(req.Method, route, "decode_error").Inc()
			return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
		}
	}

	metrics.APIRequestsTotal.WithLabelValues(req.Method, route, "ok").Inc()
	logger.Debug("api call complete", "status", status)
	return nil
}

// RouteLabel replaces numeric path segments with ":id" so that metric label
// values stay bounded.
func RouteLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
