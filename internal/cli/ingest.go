package cli

import (
	"context"
	"fmt"

	"github.com/terry-li-hm/lustro/internal/ingest"
	"github.com/terry-li-hm/lustro/internal/state"
)

// Execute implements the go-flags Commander interface for IngestCommand.
func (c *IngestCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	svc, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	// Dry runs touch nothing on disk, so concurrent real runs are harmless.
	if !c.DryRun {
		release, err := state.Lock(cfg.StatePath)
		if err != nil {
			return err
		}
		defer release()
	}

	opts := ingest.Options{DryRun: c.DryRun, Tier: c.Tier, Source: c.Source}
	report, err := svc.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	prefix := ""
	if report.DryRun {
		prefix = "[dry-run] "
	}
	fmt.Printf("%s%d new, %d duplicates, %d alerts sent, %d gated (%s)\n",
		prefix, report.NewItems, report.Duplicates, report.AlertsSent, report.AlertsGated, report.Duration)
	if report.SourceErrors > 0 {
		fmt.Printf("%d source(s) failed, see log output above\n", report.SourceErrors)
	}
	return nil
}
