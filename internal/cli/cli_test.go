package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points every lustro path at a fresh temp tree so commands run
// hermetically. The sources file starts empty: no network is touched.
func setupEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("LUSTRO_CONFIG_DIR", filepath.Join(tmp, "config"))
	t.Setenv("LUSTRO_CACHE_DIR", filepath.Join(tmp, "cache"))
	t.Setenv("LUSTRO_DATA_DIR", filepath.Join(tmp, "data"))
	writeSources(t, tmp, "web_sources: []\n")
	return tmp
}

func writeSources(t *testing.T, tmp, content string) {
	t.Helper()
	dir := filepath.Join(tmp, "config")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.yaml"), []byte(content), 0o644))
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

func TestVersionFlag(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return RunWithArgs("0.3.0-test", []string{"--version"})
	})
	assert.NoError(t, err)
	assert.Equal(t, "lustro 0.3.0-test", strings.TrimSpace(output))
}

func TestBareInvocationRunsIngest(t *testing.T) {
	setupEnv(t)
	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{})
	})
	assert.NoError(t, err)
	assert.Contains(t, output, "0 new")
}

func TestIngestWithNoSourcesSucceeds(t *testing.T) {
	setupEnv(t)
	_, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"ingest"})
	})
	assert.NoError(t, err)
}

func TestDryRunLeavesNoState(t *testing.T) {
	tmp := setupEnv(t)
	_, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"ingest", "--dry-run"})
	})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(tmp, "cache", "state.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSourcesCommandListsConfigured(t *testing.T) {
	tmp := setupEnv(t)
	writeSources(t, tmp, `
web_sources:
  - name: Anthropic News
    rss: https://example.com/feed.xml
    tier: 1
  - name: Quiet Blog
    url: https://example.com/blog
    tier: 2
    cadence: weekly
x_accounts:
  - handle: "@openai"
    tier: 1
`)

	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"sources"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Anthropic News")
	assert.Contains(t, output, "rss")
	assert.Contains(t, output, "weekly")
	assert.Contains(t, output, "@openai")
	assert.Contains(t, output, "timeline")
}

func TestSourcesTierFilter(t *testing.T) {
	tmp := setupEnv(t)
	writeSources(t, tmp, `
web_sources:
  - name: First
    rss: https://example.com/a.xml
    tier: 1
  - name: Second
    rss: https://example.com/b.xml
    tier: 2
`)

	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"sources", "--tier", "1"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "First")
	assert.NotContains(t, output, "Second")
}

func TestStatusCommand(t *testing.T) {
	setupEnv(t)
	output, err := captureStdout(t, func() error {
		return RunWithArgs("1.0.0", []string{"status"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "1.0.0")
	assert.Contains(t, output, "0/3 used today")
}

func TestInitCreatesStarterSources(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LUSTRO_CONFIG_DIR", filepath.Join(tmp, "config"))
	t.Setenv("LUSTRO_CACHE_DIR", filepath.Join(tmp, "cache"))
	t.Setenv("LUSTRO_DATA_DIR", filepath.Join(tmp, "data"))

	_, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"init"})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmp, "config", "sources.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "web_sources:")

	// A second init must not clobber the existing file.
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config", "sources.yaml"), []byte("web_sources: []\n"), 0o644))
	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"init"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "already exists")

	data, err = os.ReadFile(filepath.Join(tmp, "config", "sources.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "web_sources: []\n", string(data))
}

func TestLogCommandEmptyLog(t *testing.T) {
	setupEnv(t)
	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"log"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "No news log yet")
}

func TestInvalidSourcesFileFailsFast(t *testing.T) {
	tmp := setupEnv(t)
	writeSources(t, tmp, `
web_sources:
  - name: Broken
    rss: https://example.com/feed.xml
    cadence: fortnightly
`)

	_, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"ingest"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cadence")
}

func fakeBird(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bird")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

const discoverySources = `
x_accounts:
  - handle: "@knownlab"
    tier: 1
x_discovery:
  keywords: ['\bmodel release\b']
`

const discoveryTimeline = `cat <<'EOF'
[
  {"text": "Huge model release announcement today", "author": {"username": "freshlab"}},
  {"text": "Our model release is out", "author": {"username": "knownlab"}},
  {"text": "Unrelated musings", "author": {"username": "offtopic"}}
]
EOF`

func TestDiscoverSuggestsUntrackedHandles(t *testing.T) {
	tmp := setupEnv(t)
	writeSources(t, tmp, discoverySources)
	t.Setenv("LUSTRO_BIRD_PATH", fakeBird(t, discoveryTimeline))

	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"discover"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Scanned 3 posts, 2 matched")
	assert.Contains(t, output, "@freshlab (1 matches)")
	assert.NotContains(t, output, "@knownlab (", "tracked handles are not suggested")

	data, err := os.ReadFile(filepath.Join(tmp, "data", "news.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "@freshlab")
	assert.Contains(t, string(data), "X Discovery")
}

func TestDiscoverDryRunSkipsLog(t *testing.T) {
	tmp := setupEnv(t)
	writeSources(t, tmp, discoverySources)
	t.Setenv("LUSTRO_BIRD_PATH", fakeBird(t, discoveryTimeline))

	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"discover", "--dry-run"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "@freshlab")

	_, statErr := os.Stat(filepath.Join(tmp, "data", "news.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDiscoverWithoutKeywords(t *testing.T) {
	setupEnv(t)
	output, err := captureStdout(t, func() error {
		return RunWithArgs("test", []string{"discover"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "No discovery keywords configured")
}

func TestUnknownCommandErrors(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"definitely-not-a-command"})
	assert.Error(t, err)
}
