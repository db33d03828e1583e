// Package naver scrapes the Naver news portal into structured listings.
// The page markup is an undocumented external format that changes
// without notice, so every extraction runs an ordered list of selector
// strategies and stops at the first one that yields results.
package naver

import "fmt"

// Item is one extracted article listing entry. Rank is assigned in
// 1-based emission order during extraction, never read from the markup.
type Item struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Press   string `json:"press,omitempty"`
	Time    string `json:"time,omitempty"`
	Summary string `json:"summary"`
}

// Article is a single fetched article body.
type Article struct {
	Title    string `json:"title"`
	Body     string `json:"bodyText"`
	Markdown string `json:"markdown,omitempty"`
}

// ScrapeError wraps any upstream failure: network error, timeout,
// non-2xx status, or undecodable body. Zero extracted items is not a
// ScrapeError.
type ScrapeError struct {
	Reason string
	Err    error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scrape failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scrape failed: %s", e.Reason)
}

func (e *ScrapeError) Unwrap() error { return e.Err }
