// Package glances implements the HTTP client for the Glances agent REST API:
// bounded-timeout fetches with a stable failure classification, and response
// normalization into generic well-formed JSON values.
package glances

import (
	"context"
	"crypto/tls"
	stdErrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/glanced/internal/errors"
	"github.com/mozilla-ai/glanced/internal/registry"
)

const (
	// DefaultTimeout bounds a single fetch. Never infinite.
	DefaultTimeout = 10 * time.Second

	// apiPrefix is the fixed versioned REST path prefix of the Glances v4 API.
	apiPrefix = "api/4"

	// userAgent is sent on every upstream request.
	userAgent = "glanced/0.1.0"

	// maxBodyBytes caps how much of a response body is read.
	// The 'all' category payload can run to a few MB on busy hosts.
	maxBodyBytes = 16 << 20

	// maxExcerptBytes caps the diagnostic body excerpt kept on non-2xx responses.
	maxExcerptBytes = 512
)

// Client fetches metrics from the Glances agents in a registry.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	registry   *registry.Registry
	httpClient *http.Client
	logger     hclog.Logger
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-fetch timeout budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a metrics client over the given registry.
func NewClient(reg *registry.Registry, logger hclog.Logger, opt ...Option) (*Client, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	c := &Client{
		registry:   reg,
		httpClient: &http.Client{},
		logger:     logger.Named("client"),
		timeout:    DefaultTimeout,
	}

	for _, o := range opt {
		o(c)
	}

	return c, nil
}

// Registry exposes the read-only server registry backing this client.
func (c *Client) Registry() *registry.Registry {
	return c.registry
}

// Fetch issues exactly one GET for the given server id and API path fragment
// (relative to the versioned API prefix) and returns the raw response body.
// Failures are classified into the FetchError taxonomy; no retries are performed.
func (c *Client) Fetch(ctx context.Context, id, fragment string) ([]byte, error) {
	target, err := c.registry.Resolve(id, fmt.Sprintf("%s/%s", apiPrefix, fragment))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.NewUnknownFetchError(err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		fe := classifyTransportError(err)
		c.logger.Debug("fetch failed", "server", id, "url", target, "kind", fe.Kind, "error", err)
		return nil, fe
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		fe := classifyTransportError(err)
		c.logger.Debug("fetch body read failed", "server", id, "url", target, "kind", fe.Kind, "error", err)
		return nil, fe
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := truncateExcerpt(string(body))
		c.logger.Debug("fetch returned non-2xx", "server", id, "url", target, "status", resp.StatusCode)
		return nil, errors.NewHTTPStatus(resp.StatusCode, excerpt)
	}

	c.logger.Debug("fetch ok", "server", id, "url", target, "bytes", len(body), "duration", time.Since(start))

	return body, nil
}

// FetchCategory fetches one metric category and normalizes its payload.
func (c *Client) FetchCategory(ctx context.Context, id string, category Category) (any, error) {
	return c.FetchCategoryPath(ctx, id, category, "")
}

// FetchCategoryPath fetches one metric category with an optional sub-resource
// path appended (e.g. category "cpu" with sub-path "total").
func (c *Client) FetchCategoryPath(ctx context.Context, id string, category Category, subPath string) (any, error) {
	fragment := string(category)
	if subPath != "" {
		fragment = fmt.Sprintf("%s/%s", fragment, subPath)
		// A sub-resource changes the payload shape, so skip the category shape check.
		category = Category(fragment)
	}

	body, err := c.Fetch(ctx, id, fragment)
	if err != nil {
		return nil, err
	}

	return Normalize(category, body)
}

// Ping probes the agent's API root for reachability, returning the observed latency.
func (c *Client) Ping(ctx context.Context, id string) (time.Duration, error) {
	start := time.Now()
	if _, err := c.Fetch(ctx, id, string(CategoryVersion)); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// truncateExcerpt caps a diagnostic body excerpt at maxExcerptBytes,
// backing up to a rune boundary so the excerpt stays valid UTF-8.
func truncateExcerpt(s string) string {
	if len(s) <= maxExcerptBytes {
		return s
	}
	cut := maxExcerptBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// classifyTransportError maps a transport-level error onto the FetchError
// taxonomy. Priority: connection establishment failures first, then timeout,
// then unknown.
func classifyTransportError(err error) *errors.FetchError {
	var dnsErr *net.DNSError
	if stdErrors.As(err, &dnsErr) {
		return errors.NewConnectionFailed(err)
	}

	var certErr *tls.CertificateVerificationError
	if stdErrors.As(err, &certErr) {
		return errors.NewConnectionFailed(err)
	}

	var opErr *net.OpError
	if stdErrors.As(err, &opErr) {
		// Dial errors cover refused connections and unreachable hosts; a
		// timed-out dial still means the connection was never established.
		if opErr.Op == "dial" {
			return errors.NewConnectionFailed(err)
		}
		if !opErr.Timeout() {
			return errors.NewConnectionFailed(err)
		}
	}

	if stdErrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeout(err)
	}

	var netErr net.Error
	if stdErrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewTimeout(err)
	}

	return errors.NewUnknownFetchError(err)
}
