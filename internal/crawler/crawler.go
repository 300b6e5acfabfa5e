// ABOUTME: Seed-driven crawler filtering by allowed domain and topical keywords
// ABOUTME: Per-link failures are logged and counted, never abort the crawl
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"corpusqa/internal/config"
	"corpusqa/internal/models"
	"corpusqa/internal/store"
)

// Report aggregates per-link outcomes of one crawl run, so failure
// rates are observable instead of silently swallowed.
type Report struct {
	RunID   string
	Visited int
	Saved   int
	Skipped int
	Failed  int
}

// Crawler discovers and persists candidate documents from seed pages.
type Crawler struct {
	cfg      config.CrawlerConfig
	store    *store.DocStore
	static   PageFetcher
	rendered PageFetcher
	sleep    func(time.Duration)
	now      func() time.Time
}

// New builds a crawler over the given document store. Domains listed in
// rendered_domains go through the rendering fetcher, everything else
// through the static one.
func New(cfg config.CrawlerConfig, docs *store.DocStore) *Crawler {
	return &Crawler{
		cfg:      cfg,
		store:    docs,
		static:   NewStaticFetcher(cfg.FetchTimeout()),
		rendered: NewRenderingFetcher(cfg.FetchTimeout()),
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Run crawls every seed in order and returns the aggregated report.
func (c *Crawler) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.New().String()}
	log := slog.With("run_id", report.RunID)

	for _, seed := range c.cfg.Seeds {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		c.crawlSource(ctx, seed, &report, log)
	}

	log.Info("crawl finished",
		"visited", report.Visited, "saved", report.Saved,
		"skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func (c *Crawler) crawlSource(ctx context.Context, seed string, report *Report, log *slog.Logger) {
	log.Info("crawling source", "seed", seed)

	html, err := c.fetcherFor(seed).Fetch(ctx, seed)
	if err != nil {
		log.Warn("seed fetch failed", "seed", seed, "error", err)
		report.Failed++
		return
	}

	links, err := extractLinks(seed, html, c.cfg.AllowedDomains)
	if err != nil {
		log.Warn("seed parse failed", "seed", seed, "error", err)
		report.Failed++
		return
	}

	saved := 0
	for _, link := range links {
		if saved >= c.cfg.MaxPerSource {
			break
		}
		if err := ctx.Err(); err != nil {
			return
		}

		report.Visited++
		ok, err := c.visit(ctx, link)
		if err != nil {
			log.Warn("skipping link", "url", link, "error", err)
			report.Failed++
			continue
		}
		if !ok {
			report.Skipped++
			continue
		}

		report.Saved++
		saved++
		c.sleep(c.cfg.RequestDelay())
	}
}

// visit fetches one candidate page and persists it when it qualifies.
// Returns false when the page is filtered out (too short, off topic).
func (c *Crawler) visit(ctx context.Context, link string) (bool, error) {
	html, err := c.fetcherFor(link).Fetch(ctx, link)
	if err != nil {
		return false, err
	}

	text, err := ExtractText(html)
	if err != nil {
		return false, err
	}
	if len(text) < c.cfg.MinTextLen {
		return false, nil
	}
	if !containsKeyword(text, c.cfg.Keywords) {
		return false, nil
	}

	doc := models.Document{
		Text: text,
		Meta: models.Metadata{
			Source:    domainOf(link),
			URL:       link,
			CrawlTime: c.now().Format("2006-01-02 15:04:05"),
		},
	}
	if _, err := c.store.Save(doc); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Crawler) fetcherFor(link string) PageFetcher {
	domain := domainOf(link)
	for _, d := range c.cfg.RenderedDomains {
		if strings.Contains(domain, d) {
			return c.rendered
		}
	}
	return c.static
}

// extractLinks pulls every outbound anchor from the seed page, resolves
// it against the seed URL, and keeps unique allowed-domain targets in
// stable order.
func extractLinks(seed, html string, allowed []string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", seed, err)
	}
	base, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("parsing seed url: %w", err)
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		full := base.ResolveReference(ref)
		if full.Scheme != "http" && full.Scheme != "https" {
			return
		}
		if !isAllowedDomain(full.Host, allowed) {
			return
		}
		seen[full.String()] = struct{}{}
	})

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links, nil
}

// ExtractText strips non-content tags and returns the page's visible
// text with collapsed whitespace.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, header").Remove()

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	return strings.TrimSpace(strings.Join(strings.Fields(text), " ")), nil
}

func isAllowedDomain(host string, allowed []string) bool {
	for _, a := range allowed {
		if strings.Contains(host, a) {
			return true
		}
	}
	return false
}

func containsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "unknown"
	}
	return u.Host
}
