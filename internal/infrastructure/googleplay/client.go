package googleplay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"AppScanner/internal/ports"
)

const (
	defaultBaseURL = "https://play.google.com"
	userAgent      = "Mozilla/5.0 (compatible; AppScanner/1.0)"
	detailsPath    = "/store/apps/details"
	searchPath     = "/store/search"
	batchPath      = "/_/PlayStoreUi/data/batchexecute"
)

// Options configure the store client. RequestDelay spaces the requests that a single
// lookup issues back to back.
type Options struct {
	BaseURL      string
	Lang         string
	Country      string
	RequestDelay time.Duration
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

// Client scrapes Google Play listing pages and its review RPC.
type Client struct {
	baseURL string
	lang    string
	country string
	delay   time.Duration
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.AppStore = (*Client)(nil)

// NewClient wires an HTTP client; locale defaults to en/us.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	lang, country := opts.Lang, opts.Country
	if lang == "" {
		lang = "en"
	}
	if country == "" {
		country = "us"
	}
	return &Client{
		baseURL: base,
		lang:    lang,
		country: country,
		delay:   opts.RequestDelay,
		client:  client,
		logger:  opts.Logger,
	}
}

// newPacer limits the follow-up requests of one lookup; a zero delay disables pacing.
func (c *Client) newPacer() *rate.Limiter {
	if c.delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(c.delay), 1)
}

func (c *Client) pageURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("hl", c.lang)
	params.Set("gl", c.country)
	return c.baseURL + path + "?" + params.Encode()
}

func (c *Client) detailsURL(id string) string {
	return c.pageURL(detailsPath, url.Values{"id": {id}})
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("play store returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("play store returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// appIDFromHref extracts the id query parameter of a details link.
func appIDFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil || !strings.Contains(u.Path, detailsPath) {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("id"))
}

func (c *Client) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
