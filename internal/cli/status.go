package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/terry-li-hm/lustro/internal/ratelimit"
	"github.com/terry-li-hm/lustro/internal/state"
)

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	fmt.Println("lustro status")
	fmt.Println("=============")
	fmt.Printf("%-10s %s\n", "Version:", c.version)
	printFile("Sources:", cfg.SourcesPath)
	printFile("State:", cfg.StatePath)
	printFile("Log:", cfg.LogPath)

	store := state.NewFileStore(cfg.StatePath)
	sourceCount, fingerprints, err := store.Summary()
	if err != nil {
		return err
	}
	fmt.Printf("%-10s %d sources, %d fingerprints\n", "Tracked:", sourceCount, fingerprints)

	alerts, err := store.LoadAlertState()
	if err != nil {
		return err
	}
	// Reconciled copy for display only; nothing is written back.
	ratelimit.Reconcile(alerts, time.Now().UTC())
	fmt.Printf("%-10s %d/%d used today", "Alerts:", alerts.AlertsToday, cfg.MaxAlertsPerDay)
	if alerts.LastAlertAt != nil {
		fmt.Printf(", last sent %s", ageString(*alerts.LastAlertAt))
	}
	fmt.Println()
	return nil
}

func printFile(label, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("%-10s %s (missing)\n", label, path)
		return
	}
	fmt.Printf("%-10s %s (%d bytes, modified %s)\n", label, path, info.Size(), ageString(info.ModTime()))
}
