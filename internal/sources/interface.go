package sources

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/models"
)

// Source is the contract for all item producers. Fetch returns items in the
// order the source presents them; any error is scoped to this source and the
// orchestrator skips it without aborting the run.
type Source interface {
	Name() string
	Tier() int
	Cadence() string
	Fetch(ctx context.Context) ([]models.Item, error)
}

// FromConfig builds the concrete Source for each configured entry,
// preserving config order.
func FromConfig(cfgs []config.Source, client *resty.Client, birdPath string) []Source {
	out := make([]Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		switch {
		case cfg.Bookmarks:
			out = append(out, NewBookmarkSource(cfg, birdPath))
		case cfg.Handle != "":
			out = append(out, NewTimelineSource(cfg, birdPath))
		case cfg.RSS != "":
			out = append(out, NewRSSSource(cfg, client))
		default:
			out = append(out, NewWebSource(cfg, client))
		}
	}
	return out
}
