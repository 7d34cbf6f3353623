package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/models"
)

// BookmarkSource reads the account's saved bookmarks through the external
// `bird` CLI, feeding manually curated posts into the same pipeline as any
// other source.
type BookmarkSource struct {
	cfg      config.Source
	birdPath string
}

var _ Source = (*BookmarkSource)(nil)

// NewBookmarkSource creates a bookmark source for the given config entry.
// birdPath may be empty, in which case the binary is resolved from PATH.
func NewBookmarkSource(cfg config.Source, birdPath string) *BookmarkSource {
	return &BookmarkSource{cfg: cfg, birdPath: birdPath}
}

func (s *BookmarkSource) Name() string    { return s.cfg.Name }
func (s *BookmarkSource) Tier() int       { return s.cfg.Tier }
func (s *BookmarkSource) Cadence() string { return s.cfg.Cadence }

// Fetch implements Source.
func (s *BookmarkSource) Fetch(ctx context.Context) ([]models.Item, error) {
	bird := s.birdPath
	if bird == "" {
		found, err := exec.LookPath("bird")
		if err != nil {
			return nil, fmt.Errorf("bird CLI not found: %w", err)
		}
		bird = found
	}

	cmd := exec.CommandContext(ctx, bird, "bookmarks", "-n", fmt.Sprint(maxItemsPerFetch*2), "--json")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("bird bookmarks: %s", firstLine(exitErr.Stderr))
		}
		return nil, fmt.Errorf("bird bookmarks: %w", err)
	}

	var tweets []tweet
	if err := json.Unmarshal(out, &tweets); err != nil {
		return nil, fmt.Errorf("parse bird output for bookmarks: %w", err)
	}

	var items []models.Item
	for _, tw := range tweets {
		text := strings.TrimSpace(tw.Text)
		if text == "" {
			continue
		}
		item := models.Item{
			SourceName: s.cfg.Name,
			Title:      truncate(text, 120),
			Tier:       s.cfg.Tier,
		}
		if tw.ID != "" && tw.Author.Username != "" {
			item.URL = fmt.Sprintf("https://x.com/%s/status/%s", tw.Author.Username, tw.ID)
		}
		if at, err := time.Parse(time.RubyDate, tw.CreatedAt); err == nil {
			item.PublishedAt = at.UTC()
		}
		items = append(items, item)
		if len(items) >= maxItemsPerFetch {
			break
		}
	}
	return items, nil
}
