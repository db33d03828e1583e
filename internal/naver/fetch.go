package naver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"newsdesk/internal/config"
)

const portalOrigin = "https://news.naver.com"

// Client fetches and decodes portal pages. The portal blocks non-browser
// clients, so every request carries a browser-like user agent.
type Client struct {
	http          *http.Client
	base          string
	userAgent     string
	maxItems      int
	rankingMax    int
	respectRobots bool

	mu     sync.Mutex
	robots *robotstxt.RobotsData
}

func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Scraper.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxItems := cfg.Scraper.MaxItems
	if maxItems <= 0 {
		maxItems = 100
	}
	rankingMax := cfg.Scraper.RankingMaxItems
	if rankingMax <= 0 {
		rankingMax = 50
	}

	return &Client{
		http:          &http.Client{Timeout: timeout},
		base:          portalOrigin,
		userAgent:     cfg.Scraper.UserAgent,
		maxItems:      maxItems,
		rankingMax:    rankingMax,
		respectRobots: cfg.Robots.Respect,
	}
}

// fetchDocument GETs a page, decodes its legacy charset, and parses it.
// The portal historically serves EUC-KR; decoding with the wrong codec
// yields garbled text rather than an error, so the charset decision is
// driven by the Content-Type header and in-page meta tags, with EUC-KR
// as the fallback when detection is uncertain.
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, &ScrapeError{Reason: "invalid page url", Err: err}
	}

	if err := c.checkRobots(ctx, u); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, &ScrapeError{Reason: "build request", Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &ScrapeError{Reason: "portal unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &ScrapeError{Reason: fmt.Sprintf("portal returned status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &ScrapeError{Reason: "read body", Err: err}
	}

	decoded, err := decodeBody(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, &ScrapeError{Reason: "decode body", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, nil, &ScrapeError{Reason: "parse html", Err: err}
	}

	return doc, u, nil
}

// decodeBody converts raw page bytes to UTF-8. Detection looks at the
// Content-Type header and the first kilobyte of the body (meta tags,
// BOM). Meta-derived encodings come back with certain == false, so the
// legacy EUC-KR assumption applies only when detection found no signal
// at all and the bytes are not already valid UTF-8.
func decodeBody(raw []byte, contentType string) ([]byte, error) {
	head := raw
	if len(head) > 1024 {
		head = head[:1024]
	}

	enc, name, certain := charset.DetermineEncoding(head, contentType)
	if !certain && name == "windows-1252" {
		// windows-1252 is DetermineEncoding's no-signal default and
		// garbles Korean text under either real encoding.
		if utf8.Valid(raw) {
			enc = unicode.UTF8
		} else {
			enc = korean.EUCKR
		}
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// checkRobots evaluates the portal's robots.txt when enabled. The group
// is fetched once per client and reused.
func (c *Client) checkRobots(ctx context.Context, u *url.URL) error {
	if !c.respectRobots {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.robots == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Scheme+"://"+u.Host+"/robots.txt", nil)
		if err != nil {
			return &ScrapeError{Reason: "build robots request", Err: err}
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return &ScrapeError{Reason: "fetch robots.txt", Err: err}
		}
		defer resp.Body.Close()

		data, err := robotstxt.FromResponse(resp)
		if err != nil {
			return &ScrapeError{Reason: "parse robots.txt", Err: err}
		}
		c.robots = data
	}

	if !c.robots.TestAgent(u.Path, c.userAgent) {
		return &ScrapeError{Reason: "path disallowed by robots.txt: " + u.Path}
	}
	return nil
}
