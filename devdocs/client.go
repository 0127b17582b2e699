// Package devdocs implements docpack.Client against a DevDocs
// deployment over HTTP.
package devdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmendel/docpack"
	"golang.org/x/time/rate"
)

// Default deployment addresses. DevDocs serves its frontend and its
// per-docset document files from different hosts.
const (
	DefaultFrontendURL  = "https://devdocs.io"
	DefaultDocumentsURL = "https://documents.devdocs.io"
)

// DefaultTimeout bounds each request end to end. Raise it with
// WithTimeout when fetching very large docsets over slow links.
const DefaultTimeout = 15 * time.Second

// Ensure Client implements docpack.Client at compile time.
var _ docpack.Client = (*Client)(nil)

// Client reads documentation sets from a DevDocs deployment.
type Client struct {
	frontendURL  string
	documentsURL string
	httpClient   *http.Client
	timeout      time.Duration
	limiter      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithFrontendURL points the client at a different frontend server.
func WithFrontendURL(url string) Option {
	return func(c *Client) {
		c.frontendURL = url
	}
}

// WithDocumentsURL points the client at a different documents server.
func WithDocumentsURL(url string) Option {
	return func(c *Client) {
		c.documentsURL = url
	}
}

// WithTimeout sets the timeout for each request.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. The timeout
// option is ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests at rps per second as a courtesy
// to the public deployment.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a Client for the public DevDocs deployment unless
// options point it elsewhere.
func NewClient(opts ...Option) *Client {
	c := &Client{
		frontendURL:  DefaultFrontendURL,
		documentsURL: DefaultDocumentsURL,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, docpack.Errorf(docpack.EUNAVAILABLE, "fetching %s: %s", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "HTTP 404 for %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, docpack.Errorf(docpack.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// docFile reads a file from the documents server for the given slug.
func (c *Client) docFile(ctx context.Context, slug, name string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%s/%s/%s", c.documentsURL, slug, name))
}

// ListDocs lists the documentation sets the deployment has published,
// in UI order. It reads the frontend listing because the backend
// variant is missing attribution information.
func (c *Client) ListDocs(ctx context.Context) ([]docpack.Metadata, error) {
	body, err := c.get(ctx, c.frontendURL+"/docs.json")
	if err != nil {
		return nil, err
	}

	var docs []docpack.Metadata
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing docs.json: %s", err)
	}
	return docs, nil
}

// Index fetches the entries and headings for a docset's sidebar.
func (c *Client) Index(ctx context.Context, slug string) (*docpack.Index, error) {
	body, err := c.docFile(ctx, slug, "index.json")
	if err != nil {
		return nil, err
	}

	var idx docpack.Index
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing index.json for %s: %s", slug, err)
	}
	return &idx, nil
}

// Meta fetches metadata for a single docset.
func (c *Client) Meta(ctx context.Context, slug string) (*docpack.Metadata, error) {
	body, err := c.docFile(ctx, slug, "meta.json")
	if err != nil {
		return nil, err
	}

	var meta docpack.Metadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing meta.json for %s: %s", slug, err)
	}
	return &meta, nil
}

// DB fetches the docset's page database keyed by path. The largest
// known database is around 150MB, so the result is held in memory but
// must not be cached.
func (c *Client) DB(ctx context.Context, slug string) (map[string]string, error) {
	body, err := c.docFile(ctx, slug, "db.json")
	if err != nil {
		return nil, err
	}

	var db map[string]string
	if err := json.Unmarshal(body, &db); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing db.json for %s: %s", slug, err)
	}
	return db, nil
}

// ApplicationCSS fetches the stylesheet that normalizes page content
// across docsets.
func (c *Client) ApplicationCSS(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.frontendURL+"/application.css")
	if err != nil {
		return "", err
	}
	return string(body), nil
}
