package cli

import (
	"fmt"

	"github.com/terry-li-hm/lustro/internal/newslog"
)

// Execute implements the go-flags Commander interface for LogCommand.
func (c *LogCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	writer := newslog.NewWriter(cfg.LogPath, cfg.MaxLogLines)
	lines, err := writer.Tail(c.Lines)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("No news log yet. Run 'lustro ingest' first.")
		return nil
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
