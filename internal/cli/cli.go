// Package cli implements the lustro command-line interface.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Ingest   *IngestCommand
	Sources  *SourcesCommand
	Status   *StatusCommand
	Log      *LogCommand
	Init     *InitCommand
	Check    *CheckCommand
	Discover *DiscoverCommand
	Serve    *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "lustro"
	parser.LongDescription = "AI news watcher: fetches configured sources, keeps a deduplicated markdown log, and rate-limits breaking-news alerts."

	cmds := &commands{
		Ingest:   &IngestCommand{globals: &globals, version: version},
		Sources:  &SourcesCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
		Log:      &LogCommand{globals: &globals, version: version},
		Init:     &InitCommand{globals: &globals, version: version},
		Check:    &CheckCommand{globals: &globals, version: version},
		Discover: &DiscoverCommand{globals: &globals, version: version},
		Serve:    &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("ingest", "Run one ingest pass", "Fetch all due sources, log new items, and dispatch rate-limited breaking alerts.", cmds.Ingest)
	parser.AddCommand("sources", "List configured sources", "List the configured sources with their type, tier, and cadence.", cmds.Sources)
	parser.AddCommand("status", "Show state summary", "Show file paths, tracked sources, and the current alert budget.", cmds.Status)
	parser.AddCommand("log", "Tail the news log", "Print the most recent lines of the markdown news log.", cmds.Log)
	parser.AddCommand("init", "Create config skeleton", "Create the config, cache, and data directories and a starter sources file.", cmds.Init)
	parser.AddCommand("check", "Health-check sources", "Probe each configured source endpoint without mutating any state.", cmds.Check)
	parser.AddCommand("discover", "Find new handles to track", "Scan the home timeline for untracked handles whose posts match the discovery keywords.", cmds.Discover)
	parser.AddCommand("serve", "Run the daemon", "Run scheduled ingest passes with an HTTP health/metrics/trigger surface.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the lustro CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand. Bare invocation defaults to an ingest pass.
func RunWithArgs(version string, args []string) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("lustro %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}
	if len(checkArgs) == 0 {
		checkArgs = []string{"ingest"}
	}

	parser, _, _ := buildParser(version)

	_, err := parser.ParseArgs(checkArgs)
	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
