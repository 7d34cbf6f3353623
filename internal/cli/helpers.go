package cli

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/ingest"
	"github.com/terry-li-hm/lustro/internal/newslog"
	"github.com/terry-li-hm/lustro/internal/notifications"
	"github.com/terry-li-hm/lustro/internal/sources"
	"github.com/terry-li-hm/lustro/internal/state"
)

// loadConfig loads and validates the configuration, applying the global
// verbosity flag to the logger.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug || (globals != nil && globals.Verbose) {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return cfg, nil
}

// buildPipeline wires the full ingest pipeline from a loaded config.
func buildPipeline(cfg *config.Config) (*ingest.Service, error) {
	store := state.NewFileStore(cfg.StatePath)
	writer := newslog.NewWriter(cfg.LogPath, cfg.MaxLogLines)
	sender := notifications.NewService(cfg)

	client := sources.NewClient(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	srcs := sources.FromConfig(cfg.Sources, client, cfg.BirdPath)

	return ingest.NewService(cfg, store, writer, sender, srcs)
}

// ageString renders the age of a timestamp for human output.
func ageString(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return age.Round(time.Minute).String() + " ago"
	case age < 48*time.Hour:
		return age.Round(time.Hour).String() + " ago"
	default:
		return t.UTC().Format("2006-01-02")
	}
}
