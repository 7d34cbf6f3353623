// Package state persists what the pipeline has already seen and how many
// alerts it has sent today.
package state

import (
	"fmt"
	"time"
)

// SeenSet maps fingerprint to first-seen time for one source. It grows
// monotonically; nothing in the ingest path ever removes entries.
type SeenSet map[string]time.Time

// Contains reports whether the fingerprint was seen on a previous run.
func (s SeenSet) Contains(fp string) bool {
	_, ok := s[fp]
	return ok
}

// AlertState is the process-wide alert accounting record.
type AlertState struct {
	AlertsToday int        `json:"alerts_today"`
	DayMarker   string     `json:"day_marker"` // YYYY-MM-DD the counter applies to
	LastAlertAt *time.Time `json:"last_alert_at,omitempty"`
}

// SourceState is everything the store tracks for one source.
type SourceState struct {
	LastFetch *time.Time `json:"last_fetch,omitempty"`
	ZeroRuns  int        `json:"zero_runs,omitempty"` // consecutive fetches with no new items
	Seen      SeenSet    `json:"seen"`
}

// Store is the persistence contract for dedup and alert state. Implementations
// are single-writer: callers must not invoke mutating operations concurrently.
type Store interface {
	// LoadSeen returns the seen set for a source. A source the store has
	// never recorded yields an empty set, not an error.
	LoadSeen(sourceName string) (SeenSet, error)
	// SaveSeen persists the seen set for a source durably.
	SaveSeen(sourceName string, seen SeenSet) error

	LoadAlertState() (*AlertState, error)
	SaveAlertState(st *AlertState) error

	// LastFetch returns the last successful fetch time for a source, with
	// ok=false when the source has never been fetched.
	LastFetch(sourceName string) (t time.Time, ok bool, err error)
	SetLastFetch(sourceName string, t time.Time) error

	// ZeroRuns tracks consecutive fetches that produced no new items, used
	// to flag sources that have gone quiet.
	ZeroRuns(sourceName string) (int, error)
	SetZeroRuns(sourceName string, n int) error
}

// CorruptError reports a state file that exists but cannot be parsed as its
// expected structure. Callers treat it as fatal for the store rather than
// overwriting with fresh empty state.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("state file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
