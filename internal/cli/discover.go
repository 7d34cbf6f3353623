package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/terry-li-hm/lustro/internal/discover"
	"github.com/terry-li-hm/lustro/internal/models"
	"github.com/terry-li-hm/lustro/internal/newslog"
)

// Execute implements the go-flags Commander interface for DiscoverCommand.
func (c *DiscoverCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if len(cfg.Discovery.Keywords) == 0 {
		fmt.Println("No discovery keywords configured (x_discovery.keywords in sources.yaml).")
		return nil
	}

	scanner, err := discover.New(cfg.BirdPath, cfg.Discovery.Keywords)
	if err != nil {
		return err
	}

	tracked := map[string]bool{}
	for _, s := range cfg.Sources {
		if s.Handle != "" {
			tracked[discover.NormalizeHandle(s.Handle)] = true
		}
	}

	count := c.Count
	if count <= 0 {
		count = cfg.Discovery.Count
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.FetchTimeoutSeconds)*time.Second)
	defer cancel()

	report, err := scanner.Scan(ctx, count, tracked)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d posts, %d matched keywords\n", report.Scanned, report.Matched)
	if len(report.Suggestions) == 0 {
		fmt.Println("New handles (not tracked): none")
		return nil
	}
	fmt.Println("New handles (not tracked):")
	for _, s := range report.Suggestions {
		fmt.Printf("  @%s (%d matches) %q\n", s.Handle, s.Matches, s.Sample)
	}

	if c.DryRun {
		return nil
	}

	var entries []models.LogEntry
	for _, s := range report.Suggestions {
		entries = append(entries, models.LogEntry{
			Title:      "@" + s.Handle,
			SourceName: "X Discovery",
			Summary:    fmt.Sprintf("%d matches: %q", s.Matches, s.Sample),
		})
	}
	writer := newslog.NewWriter(cfg.LogPath, cfg.MaxLogLines)
	return writer.Append(entries, time.Now().UTC())
}
