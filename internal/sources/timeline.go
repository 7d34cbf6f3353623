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

// TimelineSource reads posts from a social timeline through the external
// `bird` CLI. A missing binary or a non-zero exit is a per-source failure.
type TimelineSource struct {
	cfg      config.Source
	birdPath string
}

var _ Source = (*TimelineSource)(nil)

// NewTimelineSource creates a timeline source for the given config entry.
// birdPath may be empty, in which case the binary is resolved from PATH.
func NewTimelineSource(cfg config.Source, birdPath string) *TimelineSource {
	return &TimelineSource{cfg: cfg, birdPath: birdPath}
}

func (s *TimelineSource) Name() string    { return s.cfg.Name }
func (s *TimelineSource) Tier() int       { return s.cfg.Tier }
func (s *TimelineSource) Cadence() string { return s.cfg.Cadence }

type tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	Author    struct {
		Username string `json:"username"`
	} `json:"author"`
}

// Fetch implements Source.
func (s *TimelineSource) Fetch(ctx context.Context) ([]models.Item, error) {
	bird := s.birdPath
	if bird == "" {
		found, err := exec.LookPath("bird")
		if err != nil {
			return nil, fmt.Errorf("bird CLI not found: %w", err)
		}
		bird = found
	}

	handle := strings.TrimPrefix(s.cfg.Handle, "@")
	cmd := exec.CommandContext(ctx, bird, "user-tweets", handle, "-n", fmt.Sprint(maxItemsPerFetch*2), "--json")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("bird @%s: %s", handle, firstLine(exitErr.Stderr))
		}
		return nil, fmt.Errorf("bird @%s: %w", handle, err)
	}

	var tweets []tweet
	if err := json.Unmarshal(out, &tweets); err != nil {
		return nil, fmt.Errorf("parse bird output for @%s: %w", handle, err)
	}

	var items []models.Item
	for _, tw := range tweets {
		text := strings.TrimSpace(tw.Text)
		if len(text) < 20 {
			continue
		}
		item := models.Item{
			SourceName: s.cfg.Name,
			Title:      truncate(text, 120),
			Tier:       s.cfg.Tier,
		}
		if tw.ID != "" {
			username := tw.Author.Username
			if username == "" {
				username = handle
			}
			item.URL = fmt.Sprintf("https://x.com/%s/status/%s", username, tw.ID)
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

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func firstLine(stderr []byte) string {
	line := strings.SplitN(strings.TrimSpace(string(stderr)), "\n", 2)[0]
	if len(line) > 80 {
		line = line[:80]
	}
	if line == "" {
		line = "exited with error"
	}
	return line
}
