package discover

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBird writes an executable script standing in for the bird CLI.
func fakeBird(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bird")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

const sampleTimeline = `cat <<'EOF'
[
  {"text": "Big model release from a new lab, details in thread", "author": {"username": "freshlab"}},
  {"text": "Another model release benchmark post", "author": {"username": "freshlab"}},
  {"text": "Our model release is live now", "author": {"username": "knownlab"}},
  {"text": "Lunch photos from the office", "author": {"username": "foodie"}},
  {"text": "One more model release recap", "author": {"username": "quietlab"}}
]
EOF`

func TestScanGroupsAndSortsSuggestions(t *testing.T) {
	scanner, err := New(fakeBird(t, sampleTimeline), []string{`model release`})
	require.NoError(t, err)

	report, err := scanner.Scan(context.Background(), 50, map[string]bool{"knownlab": true})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Scanned)
	assert.Equal(t, 4, report.Matched, "food post does not match")
	require.Len(t, report.Suggestions, 2, "tracked handle is excluded")

	assert.Equal(t, "freshlab", report.Suggestions[0].Handle)
	assert.Equal(t, 2, report.Suggestions[0].Matches)
	assert.Contains(t, report.Suggestions[0].Sample, "Big model release")
	assert.Equal(t, "quietlab", report.Suggestions[1].Handle)
}

func TestScanNoKeywordsMatchesNothing(t *testing.T) {
	scanner, err := New(fakeBird(t, sampleTimeline), nil)
	require.NoError(t, err)

	report, err := scanner.Scan(context.Background(), 50, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Scanned)
	assert.Equal(t, 0, report.Matched)
	assert.Empty(t, report.Suggestions)
}

func TestScanHandleFallbackFields(t *testing.T) {
	bird := fakeBird(t, `cat <<'EOF'
[
  {"text": "model release one", "author": {"screen_name": "@ScreenLab"}},
  {"text": "model release two", "author_handle": "flatlab"}
]
EOF`)
	scanner, err := New(bird, []string{`model release`})
	require.NoError(t, err)

	report, err := scanner.Scan(context.Background(), 10, nil)
	require.NoError(t, err)
	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "flatlab", report.Suggestions[0].Handle)
	assert.Equal(t, "screenlab", report.Suggestions[1].Handle, "handle is normalized")
}

func TestScanCLIFailure(t *testing.T) {
	scanner, err := New(fakeBird(t, `echo "auth expired" >&2; exit 1`), []string{`x`})
	require.NoError(t, err)

	_, err = scanner.Scan(context.Background(), 10, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth expired")
}

func TestNewRejectsInvalidKeyword(t *testing.T) {
	_, err := New("", []string{`(unclosed`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid discovery keyword")
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "openai", NormalizeHandle("@OpenAI"))
	assert.Equal(t, "openai", NormalizeHandle("  openai  "))
	assert.Equal(t, "", NormalizeHandle("@"))
}

func TestSampleTruncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := sample(long)
	assert.LessOrEqual(t, len([]rune(got)), 102)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short text", sample("short\n  text"))
}
