package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
)

// Execute implements the go-flags Commander interface for SourcesCommand.
func (c *SourcesCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tTIER\tCADENCE")
	for _, s := range cfg.Sources {
		if c.Tier != 0 && s.Tier != c.Tier {
			continue
		}
		kind := "web"
		switch {
		case s.Bookmarks:
			kind = "bookmarks"
		case s.Handle != "":
			kind = "timeline"
		case s.RSS != "":
			kind = "rss"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Name, kind, s.Tier, s.Cadence)
	}
	return w.Flush()
}
