package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/terry-li-hm/lustro/internal/config"
)

// Execute implements the go-flags Commander interface for InitCommand.
func (c *InitCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	for _, dir := range []string{cfg.ConfigDir, cfg.CacheDir, cfg.DataDir, filepath.Dir(cfg.SourcesPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(cfg.SourcesPath); err == nil && !c.Force {
		fmt.Printf("Sources file already exists: %s (use --force to overwrite)\n", cfg.SourcesPath)
		return nil
	}
	if err := os.WriteFile(cfg.SourcesPath, []byte(config.DefaultSourcesYAML), 0o644); err != nil {
		return fmt.Errorf("write sources file: %w", err)
	}
	fmt.Printf("Wrote starter sources file: %s\n", cfg.SourcesPath)
	return nil
}
