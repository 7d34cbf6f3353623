// Package ingest runs the fetch → fingerprint → dedup → classify →
// rate-limit → log pipeline across configured sources.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/terry-li-hm/lustro/internal/classify"
	"github.com/terry-li-hm/lustro/internal/config"
	"github.com/terry-li-hm/lustro/internal/dedup"
	"github.com/terry-li-hm/lustro/internal/models"
	"github.com/terry-li-hm/lustro/internal/newslog"
	"github.com/terry-li-hm/lustro/internal/notifications"
	"github.com/terry-li-hm/lustro/internal/ratelimit"
	"github.com/terry-li-hm/lustro/internal/sources"
	"github.com/terry-li-hm/lustro/internal/state"
)

// zeroRunWarnThreshold flags sources that keep fetching fine but never
// produce anything new; usually a dead feed or a changed page layout.
const zeroRunWarnThreshold = 5

// Options narrow one ingest run.
type Options struct {
	DryRun bool
	Tier   int    // only sources of this tier; 0 means all
	Source string // only this source by name; "" means all
}

// Service orchestrates one ingest run. Sources are processed strictly in
// sequence; a failing source is skipped, store and log failures abort the
// run.
type Service struct {
	config     *config.Config
	store      state.Store
	writer     *newslog.Writer
	sender     notifications.Sender
	classifier *classify.Classifier
	limiter    *ratelimit.Limiter
	sources    []sources.Source

	// Now is the clock used for all decisions; tests override it.
	Now func() time.Time
}

// NewService wires the pipeline. The pattern sets were validated at config
// load, so compilation cannot fail here with a loaded config.
func NewService(cfg *config.Config, store state.Store, writer *newslog.Writer, sender notifications.Sender, srcs []sources.Source) (*Service, error) {
	classifier, err := classify.New(cfg.Breaking)
	if err != nil {
		return nil, err
	}
	return &Service{
		config:     cfg,
		store:      store,
		writer:     writer,
		sender:     sender,
		classifier: classifier,
		limiter:    ratelimit.New(cfg.MaxAlertsPerDay, time.Duration(cfg.CooldownMinutes)*time.Minute),
		sources:    srcs,
		Now:        time.Now,
	}, nil
}

// Run executes one pass over all selected sources and returns a summary.
// The error is non-nil only for run-fatal failures: a corrupt store or an
// unwritable log.
func (s *Service) Run(ctx context.Context, opts Options) (*models.RunReport, error) {
	now := s.Now().UTC()
	start := time.Now()
	report := &models.RunReport{
		StartedAt:    now,
		SourceCounts: make(map[string]int),
		DryRun:       opts.DryRun,
	}

	logrus.Infof("Starting ingest run (%d sources configured)", len(s.sources))

	var entries []models.LogEntry
	var breaking []models.Item

	for _, src := range s.sources {
		if opts.Source != "" && src.Name() != opts.Source {
			continue
		}
		if opts.Tier != 0 && src.Tier() != opts.Tier {
			continue
		}

		due, err := s.cadenceDue(src, now)
		if err != nil {
			return nil, err
		}
		if !due {
			logrus.Debugf("%s: not due yet (%s cadence)", src.Name(), src.Cadence())
			report.SkippedCadence++
			continue
		}

		fresh, dups, err := s.fetchSource(ctx, src)
		if err != nil {
			// Corrupt state aborts the run; it must never be overwritten
			// with a fresh empty set.
			var corrupt *state.CorruptError
			if errors.As(err, &corrupt) {
				return nil, err
			}
			// Any other failure is source-scoped: report one line, move on.
			logrus.Warnf("Skipping %s: %v", src.Name(), err)
			report.SourceErrors++
			continue
		}

		report.SourceCounts[src.Name()] = len(fresh)
		report.Duplicates += len(dups)
		report.NewItems += len(fresh)

		if opts.DryRun {
			for _, tagged := range fresh {
				fmt.Printf("[dry-run] would log: %s (%s)\n", tagged.Item.Title, src.Name())
			}
		} else if err := s.commitSource(src.Name(), fresh, now); err != nil {
			return nil, err
		}

		for _, tagged := range fresh {
			entries = append(entries, toEntry(tagged.Item))
			if s.classifier.Classify(tagged.Item) == classify.Breaking {
				breaking = append(breaking, tagged.Item)
			}
		}
	}

	if !opts.DryRun && len(entries) > 0 {
		if err := s.writer.Append(entries, now); err != nil {
			return nil, fmt.Errorf("append news log: %w", err)
		}
	}

	if err := s.dispatchAlerts(breaking, now, opts.DryRun, report); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start).Round(time.Millisecond).String()
	logrus.Infof("Ingest run completed in %s: %d new, %d duplicates, %d alerts sent, %d gated",
		report.Duration, report.NewItems, report.Duplicates, report.AlertsSent, report.AlertsGated)
	return report, nil
}

// cadenceDue reports whether the source's cadence allows a fetch now.
func (s *Service) cadenceDue(src sources.Source, now time.Time) (bool, error) {
	last, ok, err := s.store.LastFetch(src.Name())
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	days := config.Cadences[src.Cadence()]
	return now.Sub(last) >= time.Duration(days)*24*time.Hour, nil
}

// fetchSource pulls one source and partitions its items against the seen
// set. The returned error is source-scoped.
func (s *Service) fetchSource(ctx context.Context, src sources.Source) (fresh, dups []dedup.Tagged, err error) {
	timeout := time.Duration(s.config.FetchTimeoutSeconds) * time.Second
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logrus.Infof("Fetching %s", src.Name())
	items, err := src.Fetch(fetchCtx)
	if err != nil {
		return nil, nil, err
	}

	var kept []models.Item
	for _, item := range items {
		if isJunk(item.Title) {
			continue
		}
		kept = append(kept, item)
	}

	seen, err := s.store.LoadSeen(src.Name())
	if err != nil {
		return nil, nil, err
	}

	fresh, dups = dedup.Partition(kept, seen)
	logrus.Infof("%s: %d fetched, %d new, %d duplicate", src.Name(), len(items), len(fresh), len(dups))
	return fresh, dups, nil
}

// commitSource persists the seen-set growth and fetch bookkeeping for one
// source.
func (s *Service) commitSource(name string, fresh []dedup.Tagged, now time.Time) error {
	seen, err := s.store.LoadSeen(name)
	if err != nil {
		return err
	}
	for _, tagged := range fresh {
		seen[tagged.Fingerprint] = now
	}
	if err := s.store.SaveSeen(name, seen); err != nil {
		return err
	}
	if err := s.store.SetLastFetch(name, now); err != nil {
		return err
	}

	if len(fresh) > 0 {
		return s.store.SetZeroRuns(name, 0)
	}
	zeros, err := s.store.ZeroRuns(name)
	if err != nil {
		return err
	}
	zeros++
	if zeros >= zeroRunWarnThreshold {
		logrus.Warnf("%s has produced nothing new for %d consecutive fetches", name, zeros)
	}
	return s.store.SetZeroRuns(name, zeros)
}

// dispatchAlerts runs every breaking item through the rate limiter in order.
// Admitted alerts are persisted before the send, so a crash between the two
// under-alerts instead of double-alerting. Send failures are logged; the
// alert slot stays consumed.
func (s *Service) dispatchAlerts(breaking []models.Item, now time.Time, dryRun bool, report *models.RunReport) error {
	if len(breaking) == 0 {
		return nil
	}

	alertState, err := s.store.LoadAlertState()
	if err != nil {
		return err
	}

	for _, item := range breaking {
		decision := s.limiter.Admit(alertState, now)
		if decision != ratelimit.Admitted {
			logrus.Infof("Throttled alert (%s): %s", decision, item.Title)
			report.AlertsGated++
			continue
		}

		alert := models.Alert{Title: item.Title, URL: item.URL, SourceName: item.SourceName, At: now}
		if dryRun {
			fmt.Printf("[dry-run] would alert: %s (%s)\n", item.Title, item.SourceName)
			report.AlertsSent++
			continue
		}

		if err := s.store.SaveAlertState(alertState); err != nil {
			return fmt.Errorf("persist alert state: %w", err)
		}
		if err := s.sender.Send(alert); err != nil {
			logrus.Errorf("Alert send failed (slot stays consumed): %v", err)
		}
		report.AlertsSent++
	}
	return nil
}

func toEntry(item models.Item) models.LogEntry {
	e := models.LogEntry{
		Title:      item.Title,
		URL:        item.URL,
		SourceName: item.SourceName,
		Summary:    item.Summary,
	}
	if !item.PublishedAt.IsZero() {
		e.Date = item.PublishedAt.UTC().Format("2006-01-02")
	}
	return e
}
