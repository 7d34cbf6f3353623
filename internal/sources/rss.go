package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/models"
)

const (
	maxItemsPerFetch = 5
	userAgent        = "lustro/1.0 (+https://github.com/terry-li-hm/lustro)"
)

// RSSSource fetches a feed URL and parses it with gofeed. When the feed
// fails and a page URL is configured, it falls back to scraping the page.
type RSSSource struct {
	cfg    config.Source
	client *resty.Client
	parser *gofeed.Parser
}

var _ Source = (*RSSSource)(nil)

// NewRSSSource creates an RSS source for the given config entry.
func NewRSSSource(cfg config.Source, client *resty.Client) *RSSSource {
	return &RSSSource{cfg: cfg, client: client, parser: gofeed.NewParser()}
}

func (s *RSSSource) Name() string    { return s.cfg.Name }
func (s *RSSSource) Tier() int       { return s.cfg.Tier }
func (s *RSSSource) Cadence() string { return s.cfg.Cadence }

// Fetch implements Source.
func (s *RSSSource) Fetch(ctx context.Context) ([]models.Item, error) {
	items, err := s.fetchFeed(ctx)
	if err == nil {
		return items, nil
	}
	if s.cfg.URL != "" {
		logrus.Warnf("%s: feed failed (%v), falling back to web scrape", s.cfg.Name, err)
		return scrapePage(ctx, s.client, s.cfg)
	}
	return nil, err
}

func (s *RSSSource) fetchFeed(ctx context.Context) ([]models.Item, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(s.cfg.RSS)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.cfg.RSS, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("feed %s returned status %d", s.cfg.RSS, resp.StatusCode())
	}

	feed, err := s.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.cfg.RSS, err)
	}

	var items []models.Item
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		item := models.Item{
			SourceName: s.cfg.Name,
			Title:      title,
			URL:        strings.TrimSpace(entry.Link),
			Summary:    summarize(entry.Description),
			Tier:       s.cfg.Tier,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = entry.UpdatedParsed.UTC()
		}
		items = append(items, item)
		if len(items) >= maxItemsPerFetch {
			break
		}
	}
	return items, nil
}

var sentenceEnd = regexp.MustCompile(`[.!?。！？]`)

// summarize strips markup from a feed description and keeps the first
// sentence, capped at 120 runes.
func summarize(description string) string {
	if description == "" {
		return ""
	}
	text := description
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(description)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > 120 {
		runes = runes[:120]
	}
	return string(runes)
}

// NewClient builds the shared HTTP client used by web-backed sources.
func NewClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
}
