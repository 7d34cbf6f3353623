package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Verbose bool `long:"verbose" description:"Enable verbose (debug) logging"`
	Version bool `long:"version" description:"Show version and exit"`
}

// IngestCommand — run one fetch/dedup/alert pass over the configured sources.
type IngestCommand struct {
	DryRun bool   `long:"dry-run" description:"Report what would change without writing state, log, or alerts"`
	Tier   int    `long:"tier" description:"Only fetch sources of this tier (0 = all)" default:"0"`
	Source string `long:"source" description:"Only fetch the named source"`

	globals *GlobalFlags
	version string
}

// SourcesCommand — list the configured sources.
type SourcesCommand struct {
	Tier int `long:"tier" description:"Only list sources of this tier (0 = all)" default:"0"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show file paths, ages, and alert-state summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// LogCommand — print the tail of the news log.
type LogCommand struct {
	Lines int `long:"lines" short:"n" description:"Number of lines to print" default:"20"`

	globals *GlobalFlags
	version string
}

// InitCommand — create the config/cache/data directories and a starter
// sources file.
type InitCommand struct {
	Force bool `long:"force" description:"Overwrite an existing sources file"`

	globals *GlobalFlags
	version string
}

// CheckCommand — health-check the configured sources without mutating state.
type CheckCommand struct {
	globals *GlobalFlags
	version string
}

// DiscoverCommand — scan the home timeline for new handles worth tracking.
type DiscoverCommand struct {
	Count  int  `long:"count" description:"Number of posts to scan (0 = configured default)" default:"0"`
	DryRun bool `long:"dry-run" description:"Print suggestions without appending them to the news log"`

	globals *GlobalFlags
	version string
}

// ServeCommand — run the scheduler daemon with an HTTP control surface.
type ServeCommand struct {
	Port string `long:"port" description:"Override HTTP listen port"`

	globals *GlobalFlags
	version string
}
