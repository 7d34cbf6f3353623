package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/terry-li-hm/lustro/internal/sources"
	"github.com/terry-li-hm/lustro/internal/state"
)

// Execute implements the go-flags Commander interface for CheckCommand.
// Probes are read-only: no seen sets, fetch markers, or log lines change.
func (c *CheckCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store := state.NewFileStore(cfg.StatePath)
	client := sources.NewClient(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)

	birdStatus := "not configured"
	if cfg.BirdPath != "" {
		if _, err := exec.LookPath(cfg.BirdPath); err != nil {
			birdStatus = "missing: " + cfg.BirdPath
		} else {
			birdStatus = "ok"
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tENDPOINT\tLAST FETCH")
	failures := 0
	for _, s := range cfg.Sources {
		endpoint := birdStatus
		if s.Handle == "" && !s.Bookmarks {
			url := s.RSS
			if url == "" {
				url = s.URL
			}
			endpoint = probe(client, url)
		}
		if !strings.HasPrefix(endpoint, "ok") && endpoint != "not configured" {
			failures++
		}

		last := "never"
		if t, ok, err := store.LastFetch(s.Name); err != nil {
			return err
		} else if ok {
			last = ageString(t)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, endpoint, last)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d source(s) unhealthy", failures)
	}
	return nil
}

func probe(client *resty.Client, url string) string {
	resp, err := client.R().Get(url)
	if err != nil {
		return "error: " + err.Error()
	}
	if resp.StatusCode() >= 400 {
		return fmt.Sprintf("HTTP %d", resp.StatusCode())
	}
	return "ok"
}
