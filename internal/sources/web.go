package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/models"
)

// WebSource scrapes headline links from a page for sources without a feed.
type WebSource struct {
	cfg    config.Source
	client *resty.Client
}

var _ Source = (*WebSource)(nil)

// NewWebSource creates a scraping source for the given config entry.
func NewWebSource(cfg config.Source, client *resty.Client) *WebSource {
	return &WebSource{cfg: cfg, client: client}
}

func (s *WebSource) Name() string    { return s.cfg.Name }
func (s *WebSource) Tier() int       { return s.cfg.Tier }
func (s *WebSource) Cadence() string { return s.cfg.Cadence }

// Fetch implements Source.
func (s *WebSource) Fetch(ctx context.Context) ([]models.Item, error) {
	return scrapePage(ctx, s.client, s.cfg)
}

// headlineSelectors are tried in order; the first pass looks for linked
// headlines, the second settles for bare heading text.
const headlineSelectors = "article h2 a, article h3 a, h2 a, h3 a, .post-title a"

func scrapePage(ctx context.Context, client *resty.Client, cfg config.Source) ([]models.Item, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", cfg.URL, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("page %s returned status %d", cfg.URL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", cfg.URL, err)
	}

	var items []models.Item
	doc.Find(headlineSelectors).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		if len(title) <= 10 {
			return true
		}
		link, _ := sel.Attr("href")
		items = append(items, models.Item{
			SourceName: cfg.Name,
			Title:      title,
			URL:        absoluteURL(cfg.URL, link),
			Tier:       cfg.Tier,
		})
		return len(items) < maxItemsPerFetch
	})

	if len(items) == 0 {
		// Headline links missing; settle for bare headings.
		doc.Find("h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			title := strings.TrimSpace(sel.Text())
			if len(title) > 20 {
				items = append(items, models.Item{SourceName: cfg.Name, Title: title, Tier: cfg.Tier})
			}
			return len(items) < maxItemsPerFetch
		})
	}
	return items, nil
}

func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
