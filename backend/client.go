// Package backend is the HTTP client for the commerce backend.
//
// The typed calls decode successful responses into storefront types and
// turn every non-2xx answer into a *storefront.BackendError. Do is the raw
// form used by the proxy routes, which relay status and body unchanged.
// Responses are never cached.
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

	"github.com/youssefsiam38/storefront"
)

// MaxBodySize bounds how much of a backend response is read.
const MaxBodySize = 8 << 20

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Response is a raw backend reply.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client talks to the commerce backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL. An empty baseURL is allowed; every
// call then fails with storefront.ErrBackendNotConfigured.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: storefront.TrimBaseURL(baseURL),
		http:    &http.Client{Timeout: storefront.DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the trimmed base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Do sends a request and returns the raw reply whatever its status.
// body, when non-nil, is sent as JSON. Failures to reach the backend are
// returned as *TransportError.
func (c *Client) Do(ctx context.Context, method, path string, query Params, body any) (*Response, error) {
	if !c.Configured() {
		return nil, storefront.ErrBackendNotConfigured
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("backend request failed", "method", method, "path", path, "error", err)
		}
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}

	if c.logger != nil {
		c.logger.Debug("backend request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// call runs Do and decodes a 2xx body into out.
func (c *Client) call(ctx context.Context, op, method, path string, query Params, body, out any) error {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return storefront.NewBackendError(op, resp.Status, resp.Body)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// ProductPath returns the backend path of a product.
func ProductPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

// ReviewsPath returns the backend path of a product's reviews.
func ReviewsPath(id string) string {
	return ProductPath(id) + "/reviews"
}

// ListProducts returns a catalog or search page.
func (c *Client) ListProducts(ctx context.Context, p ListParams) (*storefront.Page[storefront.Product], error) {
	p = p.Normalize(storefront.DefaultCatalogLimit)
	path, query := p.Path()

	var page storefront.Page[storefront.Product]
	if err := c.call(ctx, "list products", http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Home returns the newest and top rated products.
func (c *Client) Home(ctx context.Context, limit int) (*storefront.HomeProducts, error) {
	query := Params{}.AddInt("limit", storefront.ClampLimit(limit, storefront.DefaultHomeLimit))

	var home storefront.HomeProducts
	if err := c.call(ctx, "load home", http.MethodGet, "/products/home", query, nil, &home); err != nil {
		return nil, err
	}
	return &home, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, id string) (*storefront.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}

	var product storefront.Product
	if err := c.call(ctx, "get product", http.MethodGet, ProductPath(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListReviews returns a page of a product's reviews.
func (c *Client) ListReviews(ctx context.Context, id string, p ReviewParams) (*storefront.Page[storefront.Review], error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Normalize(storefront.DefaultReviewLimit)

	var page storefront.Page[storefront.Review]
	if err := c.call(ctx, "list reviews", http.MethodGet, ReviewsPath(id), p.Params(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateReview submits a review.
func (c *Client) CreateReview(ctx context.Context, id string, in storefront.ReviewInput) (*storefront.ReviewCreated, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}

	var created storefront.ReviewCreated
	if err := c.call(ctx, "create review", http.MethodPost, ReviewsPath(id), nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, in storefront.LoginInput) (*storefront.AuthResult, error) {
	var res storefront.AuthResult
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login", nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, in storefront.RegisterInput) (*storefront.AuthResult, error) {
	var res storefront.AuthResult
	if err := c.call(ctx, "register", http.MethodPost, "/auth/register", nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
