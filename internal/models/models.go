package models

import "time"

// Item represents one unit of content produced by a source. Immutable once
// a source hands it to the pipeline.
type Item struct {
	SourceName  string    `json:"source_name"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Tier        int       `json:"tier"` // source priority, 1 = highest
}

// Text returns the searchable text of an item (title plus summary when present).
func (i Item) Text() string {
	if i.Summary == "" {
		return i.Title
	}
	return i.Title + " " + i.Summary
}

// LogEntry is one line of the news log, written under a date section.
type LogEntry struct {
	Title      string
	URL        string
	SourceName string
	Date       string // YYYY-MM-DD of publication, may be empty
	Summary    string
}

// Alert is an outbound breaking-news notification payload.
type Alert struct {
	Title      string    `json:"title"`
	URL        string    `json:"url,omitempty"`
	SourceName string    `json:"source"`
	At         time.Time `json:"at"`
}

// RunReport summarizes one ingest run for the status/metrics surfaces.
type RunReport struct {
	StartedAt      time.Time      `json:"started_at"`
	Duration       string         `json:"duration"`
	NewItems       int            `json:"new_items"`
	Duplicates     int            `json:"duplicates"`
	AlertsSent     int            `json:"alerts_sent"`
	AlertsGated    int            `json:"alerts_gated"`
	SourceCounts   map[string]int `json:"source_counts"`
	SourceErrors   int            `json:"source_errors"`
	SkippedCadence int            `json:"skipped_cadence"`
	DryRun         bool           `json:"dry_run"`
}
