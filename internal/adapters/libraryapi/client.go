// Package libraryapi is the HTTP client for the library REST API.
//
// Every bearer call carries the caller's token through an oauth2 transport and an
// X-Request-ID header. Non-2xx answers are mapped onto internal/errors codes so
// that the session layer can pick a recovery path without looking at HTTP.
package libraryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/observability/metrics"
	"github.com/target/libris-ui/internal/observability/statsd"
	"github.com/target/libris-ui/internal/ports"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000/api"
	// DefaultTimeout bounds every API call.
	DefaultTimeout = 30 * time.Second

	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
	// Metrics receives per-request counters and latencies (optional).
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// Client talks to the library API.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	anon      *http.Client
	metrics   statsd.Sink
	logger    *slog.Logger
}

var (
	_ ports.AuthGateway    = (*Client)(nil)
	_ ports.ProfileFetcher = (*Client)(nil)
	_ ports.LibraryGateway = (*Client)(nil)
)

// New builds a Client. The base URL must be absolute.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, errors.New("api base url must include a host")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:      base,
		timeout:   timeout,
		transport: transport,
		anon:      &http.Client{Transport: transport, Timeout: timeout},
		metrics:   cfg.Metrics,
		logger:    logger.With("component", "libraryapi"),
	}, nil
}

// bearerClient returns an http.Client that authenticates as token.
func (c *Client) bearerClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: c.transport},
		Timeout:   c.timeout,
	}
}

// call describes a single API request.
type call struct {
	method string
	path   string
	token  string
	// anonymous endpoints are called without a bearer token.
	anonymous bool
	body      any
	// onError, when set, may turn a non-2xx answer into a success by returning true.
	onError func(status int, msg string) bool
}

// do performs the call and returns the decoded JSON document (nil for an empty body).
func (c *Client) do(ctx context.Context, in call) (any, error) {
	if !in.anonymous && in.token == "" {
		return nil, apperrors.Unauthenticated("Missing authentication token")
	}

	req, err := c.newRequest(ctx, in)
	if err != nil {
		return nil, err
	}

	hc := c.anon
	if !in.anonymous {
		hc = c.bearerClient(in.token)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "library api request failed",
			"method", in.method, "path", in.path,
			"request_id", req.Header.Get(headerRequestID),
			"error", err)
		terr := transportError(err)
		c.record(in, 0, time.Since(start), terr)
		return nil, terr
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(err)
	}

	c.logger.DebugContext(ctx, "library api request",
		"method", in.method, "path", in.path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(headerRequestID),
		"duration_ms", time.Since(start).Milliseconds())

	doc, err := c.interpret(resp.StatusCode, payload, in.onError)
	c.record(in, resp.StatusCode, time.Since(start), err)
	return doc, err
}

func (c *Client) interpret(status int, payload []byte, onError func(int, string) bool) (any, error) {
	doc, decodeErr := decodeDocument(payload)

	if status < 200 || status >= 300 {
		msg := messageOf(doc)
		if onError != nil && onError(status, msg) {
			return nil, nil
		}
		return nil, statusError(status, msg)
	}
	if decodeErr != nil {
		return nil, apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformed, "Invalid response format from server").
			WithStatus(status)
	}
	return doc, nil
}

func (c *Client) record(in call, status int, elapsed time.Duration, err error) {
	metrics.EmitAPICall(c.metrics, metrics.APICall{
		Method:   in.method,
		Endpoint: endpointTemplate(in.path),
		Status:   status,
		Duration: elapsed,
		Err:      err,
	})
}

// endpointTemplate replaces numeric path segments so metric cardinality stays bounded.
func endpointTemplate(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

func (c *Client) newRequest(ctx context.Context, in call) (*http.Request, error) {
	target := c.base.JoinPath(in.path)

	var body io.Reader
	if in.body != nil {
		buf, err := json.Marshal(in.body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeDocument(payload []byte) (any, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// convert re-decodes a generic JSON value into a typed target.
func convert(v any, out any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}
