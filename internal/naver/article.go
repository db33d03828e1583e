package naver

import (
	"context"
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// bodySelectors are tried in order: current article layout first, then
// the two legacy layouts still reachable through old links.
var bodySelectors = []string{"#dic_area", "#newsct_article", "#articleBodyContents"}

// FetchArticle fetches one article page and extracts its title and body
// text. When withMarkdown is set, the body region's HTML is also
// rendered as Markdown.
func (c *Client) FetchArticle(ctx context.Context, articleURL string, withMarkdown bool) (*Article, error) {
	doc, u, err := c.fetchDocument(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("#title_area span").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h2#articleTitle").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var bodySel *goquery.Selection
	for _, selector := range bodySelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			bodySel = sel
			break
		}
	}
	if bodySel == nil {
		return nil, &ScrapeError{Reason: "article body not found: " + articleURL}
	}

	bodySel.Find("script, style").Remove()

	article := &Article{
		Title: title,
		Body:  cleanBodyText(bodySel.Text()),
	}

	if withMarkdown {
		if bodyHTML, err := bodySel.Html(); err == nil {
			converter := htmlmd.NewConverter(u.Hostname(), true, nil)
			if md, err := converter.ConvertString(bodyHTML); err == nil {
				article.Markdown = strings.TrimSpace(md)
			}
		}
	}

	return article, nil
}

// cleanBodyText collapses the whitespace noise left behind by removed
// layout elements.
func cleanBodyText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
