// Package backend is the HTTP client for the listings backend REST API.
package backend

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

	"github.com/louisbranch/nestmap/internal/platform/timeouts"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	maxResponseBody = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Tracer     trace.Tracer
}

// Client calls the backend REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tracer  trace.Tracer
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url %q must be http or https", raw)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = timeouts.BackendRequest
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Client{baseURL: base, http: httpClient, tracer: tracer}, nil
}

// endpoint resolves an already escaped path against the base url.
func (c *Client) endpoint(escapedPath string, query url.Values) (string, error) {
	unescaped, err := url.PathUnescape(escapedPath)
	if err != nil {
		return "", fmt.Errorf("unescape path %q: %w", escapedPath, err)
	}
	u := *c.baseURL
	u.Path = c.baseURL.Path + unescaped
	u.RawPath = c.baseURL.EscapedPath() + escapedPath
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// do sends one request and decodes a JSON response into out when out is
// non-nil. Non-2xx statuses become typed app errors.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	ctx, span := c.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	err := c.send(ctx, span, method, path, query, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.KindOf(err)))
	}
	return err
}

func (c *Client) send(ctx context.Context, span trace.Span, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	target, err := c.endpoint(path, query)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "backend request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return statusError(method, path, resp.StatusCode)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "decode backend response", err)
	}
	return nil
}

func statusError(method, path string, status int) error {
	kind := apperrors.KindForStatus(status)
	key := ""
	if kind == apperrors.KindUnavailable {
		key = "error.backend.unavailable"
	}
	return apperrors.Error{
		Kind:    kind,
		Key:     key,
		Message: fmt.Sprintf("backend %s %s: status %d", method, path, status),
	}
}
