package naver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeholderTitles are anchor labels that carry no usable article
// title; candidates resolving to one of these are dropped.
var placeholderTitles = map[string]struct{}{
	"동영상기사":  {},
	"동영상 기사": {},
}

// strategy is one extraction heuristic applied to a parsed page.
// Strategies run in order and the first non-empty result wins; later
// entries are hedges against markup changes, not completeness
// guarantees.
type strategy func(doc *goquery.Document, base *url.URL, max int) []Item

// FetchList scrapes the section listing for a category label or code.
func (c *Client) FetchList(ctx context.Context, categoryOrCode string, max int) ([]Item, error) {
	code := ResolveCategory(categoryOrCode)
	pageURL := fmt.Sprintf("%s/main/list.naver?mode=LSD&mid=sec&sid1=%s", c.base, code)

	doc, base, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if max <= 0 || max > c.maxItems {
		max = c.maxItems
	}

	return runStrategies(doc, base, max, []strategy{extractSectionList, extractAnchorScan}), nil
}

// FetchRanking scrapes the most-viewed ranking page.
func (c *Client) FetchRanking(ctx context.Context, max int) ([]Item, error) {
	pageURL := c.base + "/main/ranking/popularDay.naver"

	doc, base, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if max <= 0 || max > c.rankingMax {
		max = c.rankingMax
	}

	return runStrategies(doc, base, max, []strategy{extractRankingBoxes, extractAnchorScan}), nil
}

// runStrategies applies strategies in order, stopping at the first
// non-empty result. Zero results after all strategies is not an error;
// the caller decides how to present "no news available".
func runStrategies(doc *goquery.Document, base *url.URL, max int, strategies []strategy) []Item {
	for _, extract := range strategies {
		if items := extract(doc, base, max); len(items) > 0 {
			return items
		}
	}
	return []Item{}
}

// extractSectionList handles the section listing layout: headline and
// plain list blocks with per-item press, time, and lede.
func extractSectionList(doc *goquery.Document, base *url.URL, max int) []Item {
	items := make([]Item, 0)

	doc.Find(".type06_headline li, .type06 li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		// The photo thumbnail anchor duplicates the title anchor; take
		// the last dt, which holds the text link.
		anchor := li.Find("dt").Last().Find("a").First()
		title, link, ok := anchorTitleLink(anchor, base)
		if !ok {
			return true
		}

		items = append(items, Item{
			Rank:    len(items) + 1,
			Title:   title,
			Link:    link,
			Press:   strings.TrimSpace(li.Find(".writing").First().Text()),
			Time:    strings.TrimSpace(li.Find(".date").First().Text()),
			Summary: strings.TrimSpace(li.Find(".lede").First().Text()),
		})
		return len(items) < max
	})

	return items
}

// extractRankingBoxes handles the per-press ranking boxes on the
// popularDay page.
func extractRankingBoxes(doc *goquery.Document, base *url.URL, max int) []Item {
	items := make([]Item, 0)

	doc.Find(".rankingnews_box").EachWithBreak(func(_ int, box *goquery.Selection) bool {
		press := strings.TrimSpace(box.Find(".rankingnews_name").First().Text())

		box.Find(".rankingnews_list li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			anchor := li.Find("a.list_title, .list_content a").First()
			if anchor.Length() == 0 {
				anchor = li.Find("a").First()
			}
			title, link, ok := anchorTitleLink(anchor, base)
			if !ok {
				return true
			}

			items = append(items, Item{
				Rank:    len(items) + 1,
				Title:   title,
				Link:    link,
				Press:   press,
				Time:    strings.TrimSpace(li.Find(".list_time").First().Text()),
				Summary: "",
			})
			return len(items) < max
		})

		return len(items) < max
	})

	return items
}

// extractAnchorScan is the last-resort hedge: walk every anchor in the
// main content region and keep the ones that look like article links,
// deduplicating by resolved URL since the scan revisits anchors the
// primary strategies already cover.
func extractAnchorScan(doc *goquery.Document, base *url.URL, max int) []Item {
	items := make([]Item, 0)
	seen := make(map[string]struct{})

	region := doc.Find("#main_content")
	if region.Length() == 0 {
		region = doc.Selection
	}

	region.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		title, link, ok := anchorTitleLink(anchor, base)
		if !ok || !looksLikeArticleURL(link) {
			return true
		}
		if _, dup := seen[link]; dup {
			return true
		}
		seen[link] = struct{}{}

		items = append(items, Item{
			Rank:    len(items) + 1,
			Title:   title,
			Link:    link,
			Summary: "",
		})
		return len(items) < max
	})

	return items
}

// anchorTitleLink extracts a usable title and absolute link from an
// anchor. The title attribute is preferred over the visible text: link
// text is often truncated or an icon label. Candidates without both a
// title and a resolvable link are dropped, not nulled-in.
func anchorTitleLink(anchor *goquery.Selection, base *url.URL) (string, string, bool) {
	if anchor == nil || anchor.Length() == 0 {
		return "", "", false
	}

	title := strings.TrimSpace(anchor.AttrOr("title", ""))
	if title == "" {
		title = strings.TrimSpace(anchor.Text())
	}
	if title == "" {
		return "", "", false
	}
	if _, placeholder := placeholderTitles[title]; placeholder {
		return "", "", false
	}

	href := strings.TrimSpace(anchor.AttrOr("href", ""))
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", "", false
	}

	linkURL, err := url.Parse(href)
	if err != nil {
		return "", "", false
	}
	if !linkURL.IsAbs() {
		linkURL = base.ResolveReference(linkURL)
	}
	if linkURL.Scheme != "http" && linkURL.Scheme != "https" {
		return "", "", false
	}
	linkURL.Fragment = ""

	return title, linkURL.String(), true
}

// looksLikeArticleURL filters the broad anchor scan down to article
// detail pages.
func looksLikeArticleURL(link string) bool {
	return strings.Contains(link, "read.naver") ||
		strings.Contains(link, "/article/") ||
		strings.Contains(link, "news.naver.com/main/read")
}
