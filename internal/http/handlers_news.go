package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/metrics"
	"newsdesk/internal/naver"
)

func scrapeTimeout(cfg *config.Config) time.Duration {
	if cfg.Scraper.TimeoutMs > 0 {
		return time.Duration(cfg.Scraper.TimeoutMs) * time.Millisecond
	}
	return 10 * time.Second
}

// scrapeError maps scraper failures onto the JSON error envelope.
func scrapeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = fiber.StatusGatewayTimeout
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

// newsListHandler serves the section listing for ?category=. Unknown
// categories resolve to the default section rather than failing.
func newsListHandler(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	news := c.Locals("news").(NewsFetcher)
	newsCache, _ := c.Locals("newsCache").(*cache.News)

	category := c.Query("category")
	code := naver.ResolveCategory(category)

	if items, ok := newsCache.GetList(c.Context(), code); ok {
		metrics.RecordScrape("list", true, true)
		return c.JSON(items)
	}

	ctx, cancel := context.WithTimeout(c.Context(), scrapeTimeout(cfg))
	defer cancel()

	items, err := news.FetchList(ctx, code, cfg.Scraper.MaxItems)
	if err != nil {
		metrics.RecordScrape("list", false, false)
		return scrapeError(c, err)
	}

	metrics.RecordScrape("list", false, true)
	newsCache.SetList(c.Context(), code, items)
	return c.JSON(items)
}

func newsRankingHandler(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	news := c.Locals("news").(NewsFetcher)
	newsCache, _ := c.Locals("newsCache").(*cache.News)

	if items, ok := newsCache.GetRanking(c.Context()); ok {
		metrics.RecordScrape("ranking", true, true)
		return c.JSON(items)
	}

	ctx, cancel := context.WithTimeout(c.Context(), scrapeTimeout(cfg))
	defer cancel()

	items, err := news.FetchRanking(ctx, cfg.Scraper.RankingMaxItems)
	if err != nil {
		metrics.RecordScrape("ranking", false, false)
		return scrapeError(c, err)
	}

	metrics.RecordScrape("ranking", false, true)
	newsCache.SetRanking(c.Context(), items)
	return c.JSON(items)
}

// articleHandler fetches one article body. Registered under both
// /api/news-content and /api/naver-article.
func articleHandler(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	news := c.Locals("news").(NewsFetcher)

	var req ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "malformed JSON body"})
	}
	if strings.TrimSpace(req.URL) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "missing required field 'url'"})
	}

	withMarkdown := strings.EqualFold(req.Format, "markdown")

	ctx, cancel := context.WithTimeout(c.Context(), scrapeTimeout(cfg))
	defer cancel()

	article, err := news.FetchArticle(ctx, req.URL, withMarkdown)
	if err != nil {
		metrics.RecordScrape("article", false, false)
		return scrapeError(c, err)
	}

	metrics.RecordScrape("article", false, true)
	return c.JSON(article)
}
