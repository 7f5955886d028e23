package audit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/pagespeedonline/v5"
	htransport "google.golang.org/api/transport/http"

	"github.com/jonathan/pagespeed-recorder/internal/schema"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// Strategy is the device profile every audit runs with.
const Strategy = "MOBILE"

// Client runs audits against the PageSpeed Insights v5 API.
type Client struct {
	svc     *pagespeedonline.Service
	limiter *TokenBucket
	logger  *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for per-call debug output.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRateLimit paces calls to at most perSecond audits per second.
// A non-positive rate disables pacing.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = NewTokenBucket(1, perSecond)
		}
	}
}

// NewClient creates a Client. apiOpts carry credentials and, in tests, the
// endpoint.
func NewClient(ctx context.Context, apiOpts []option.ClientOption, opts ...ClientOption) (*Client, error) {
	authOpts := append([]option.ClientOption{option.WithScopes(pagespeedonline.OpenIDScope)}, apiOpts...)
	hc, _, err := htransport.NewClient(ctx, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pagespeedonline transport: %w", err)
	}
	hc.Transport = &bodyCapture{base: hc.Transport}

	svc, err := pagespeedonline.NewService(ctx, append(apiOpts, option.WithHTTPClient(hc))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pagespeedonline service: %w", err)
	}

	c := &Client{svc: svc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Categories returns the API category enum values, in schema order.
func Categories() []string {
	keys := schema.CategoryKeys()
	categories := make([]string, len(keys))
	for i, key := range keys {
		categories[i] = strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	}
	return categories
}

// RunAudit audits url once. Service failures are returned as
// *TransportError; there are no retries.
func (c *Client) RunAudit(ctx context.Context, url string) (*types.AuditResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: url, Cause: err}
		}
	}

	c.logger.Debug("running audit", zap.String("url", url), zap.String("strategy", Strategy))

	body := &bytes.Buffer{}
	resp, err := c.svc.Pagespeedapi.Runpagespeed(url).
		Strategy(Strategy).
		Category(Categories()...).
		Context(context.WithValue(ctx, bodyKey{}, body)).
		Do()
	if err != nil {
		return nil, &TransportError{URL: url, Cause: err}
	}

	if body.Len() == 0 {
		return Convert(resp), nil
	}
	return DecodeResponse(body.Bytes())
}

type bodyKey struct{}

// bodyCapture copies a response body into the buffer stored in the request
// context under bodyKey, so the raw JSON can be decoded after the typed call.
type bodyCapture struct {
	base http.RoundTripper
}

func (t *bodyCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if buf, ok := req.Context().Value(bodyKey{}).(*bytes.Buffer); ok && resp.StatusCode < 300 {
		resp.Body = readCloser{Reader: io.TeeReader(resp.Body, buf), Closer: resp.Body}
	}
	return resp, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
