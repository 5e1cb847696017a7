// Package honeycomb is a small client for the Honeycomb v1 REST API:
// key introspection, dataset and column listings, and saved "exists"
// queries that link a column back to the Honeycomb UI.
package honeycomb

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/internal/httpclient"
	"github.com/teranos/sembrowse/logger"
	"github.com/teranos/sembrowse/usage"
	"github.com/teranos/sembrowse/version"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public US endpoint.
	DefaultBaseURL = "https://api.honeycomb.io/1/"
	// APIKeyEnv is the environment variable read when no key is configured.
	APIKeyEnv = "HONEYCOMB_API_KEY"
	// TeamHeader carries the API key on every request.
	TeamHeader = "X-Honeycomb-Team"

	defaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// AllowPrivate permits base URLs on private networks, e.g. a local proxy.
	AllowPrivate bool
}

// Client talks to the Honeycomb API. It is safe for concurrent use.
type Client struct {
	http   *httpclient.SaferClient
	base   *url.URL
	apiKey string
	logger *zap.SugaredLogger
}

var _ usage.Backend = (*Client)(nil)

// NewClient builds a client with the outbound protections of httpclient.
// An empty APIKey falls back to $HONEYCOMB_API_KEY.
func NewClient(cfg Config, log *zap.SugaredLogger) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	block := !cfg.AllowPrivate
	hc := httpclient.NewSaferClientWithOptions(timeout, httpclient.Options{
		BlockPrivateIP: &block,
		UserAgent:      "sembrowse/" + version.VersionTag,
	})
	return NewClientWithHTTP(cfg, hc, log)
}

// NewClientWithHTTP builds a client on top of an existing SaferClient.
// Tests use it with httpclient.WrapClient.
func NewClientWithHTTP(cfg Config, hc *httpclient.SaferClient, log *zap.SugaredLogger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if apiKey == "" {
		return nil, errors.WithHintf(
			errors.NewConfigError("no Honeycomb API key configured"),
			"set %s or honeycomb.api_key", APIKeyEnv)
	}

	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := hc.ValidateURL(raw)
	if err != nil {
		return nil, errors.WrapConfig(err, "honeycomb base URL")
	}

	if log == nil {
		log = logger.ComponentLogger("honeycomb")
	}
	return &Client{http: hc, base: base, apiKey: apiKey, logger: log}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.base.String() + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method string, segments []string, in, out any) error {
	start := time.Now()
	target := c.endpoint(segments...)
	err := c.http.DoJSON(ctx, method, target, http.Header{TeamHeader: {c.apiKey}}, in, out)
	c.logger.Debugw("Honeycomb request",
		logger.FieldMethod, method,
		logger.FieldPath, strings.Join(segments, "/"),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		logger.FieldError, err)
	return err
}
