package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/modsearch/pkg/observability"
)

// DefaultBaseURL is the public module index
const DefaultBaseURL = "https://modules.fajox.one"

// DefaultUserAgent is sent with every upstream request unless overridden
const DefaultUserAgent = "modsearch"

// DefaultMaxBodySize bounds every upstream response body
const DefaultMaxBodySize = 16 << 20

// Repository identifies a remote collection of modules
type Repository struct {
	Path string `json:"path"`
}

// Client fetches documents from the module index
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBody    int64
	metrics    *observability.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its transport is used as-is.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = ua }
}

// WithMaxBodySize rejects response bodies larger than n bytes
func WithMaxBodySize(n int64) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxBody = n
		}
	}
}

// WithMetrics records upstream requests in m
func WithMetrics(m *observability.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

// NewClient creates an index client for baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the index base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RepositoriesURL returns the URL of the repository list
func (c *Client) RepositoriesURL() string {
	return c.baseURL + "/repos.json"
}

// ListingURL returns the URL of a repository's module listing
func (c *Client) ListingURL(repoPath string) string {
	return c.join(splitPath(repoPath), "full.txt")
}

// ModuleURL returns the URL of a module's source text. Repository path
// segments and the module name are percent-encoded individually, and the
// parts are joined with exactly one slash.
func (c *Client) ModuleURL(repoPath, moduleName string) string {
	return c.join(splitPath(repoPath), url.PathEscape(moduleName)+".py")
}

func (c *Client) join(segments []string, leaf string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	b.WriteByte('/')
	b.WriteString(leaf)
	return b.String()
}

// splitPath drops empty segments so leading, trailing and doubled slashes in
// a repository path do not produce empty URL segments.
func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ListRepositories fetches the repository list
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	u := c.RepositoriesURL()
	body, err := c.get(ctx, KindRepositories, u)
	if err != nil {
		return nil, err
	}

	var repos []Repository
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, &FetchError{Kind: KindRepositories, URL: u, Err: fmt.Errorf("decode: %w", err)}
	}
	return repos, nil
}

// ListModules fetches and parses a repository's module listing
func (c *Client) ListModules(ctx context.Context, repoPath string) ([]string, error) {
	body, err := c.get(ctx, KindListing, c.ListingURL(repoPath))
	if err != nil {
		return nil, err
	}
	return ParseListing(string(body)), nil
}

// FetchModuleSource fetches a module's source text
func (c *Client) FetchModuleSource(ctx context.Context, repoPath, moduleName string) (string, error) {
	body, err := c.get(ctx, KindSource, c.ModuleURL(repoPath, moduleName))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Ping checks that the repository list is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, KindRepositories, c.RepositoriesURL())
	return err
}

func (c *Client) get(ctx context.Context, kind, u string) ([]byte, error) {
	start := time.Now()
	status := "error"
	defer func() {
		c.metrics.ObserveUpstream(kind, status, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Kind: kind, URL: u, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: kind, URL: u, Err: err}
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Kind: kind, URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &FetchError{Kind: kind, URL: u, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &FetchError{Kind: kind, URL: u, Err: fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.maxBody)}
	}
	return body, nil
}

// ParseListing splits a full.txt listing into module names. Carriage returns
// and surrounding whitespace are stripped and blank lines dropped.
func ParseListing(text string) []string {
	lines := strings.Split(text, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}
