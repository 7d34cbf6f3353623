// Package discover scans the reader's home timeline for untracked handles
// whose posts match the configured keyword set.
package discover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strings"
)

// Suggestion is one untracked handle that matched the keyword set, with how
// often it matched and a sample of the first matching post.
type Suggestion struct {
	Handle  string
	Matches int
	Sample  string
}

// Report summarizes one discovery scan.
type Report struct {
	Scanned     int
	Matched     int
	Suggestions []Suggestion
}

// Scanner runs keyword discovery over the `bird home` timeline. An empty
// keyword set matches nothing: discovery is opt-in through configuration.
type Scanner struct {
	birdPath string
	keywords []*regexp.Regexp
}

// New compiles the keyword patterns into a scanner. birdPath may be empty,
// in which case the binary is resolved from PATH at scan time.
func New(birdPath string, patterns []string) (*Scanner, error) {
	s := &Scanner{birdPath: birdPath}
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid discovery keyword %q: %w", pattern, err)
		}
		s.keywords = append(s.keywords, re)
	}
	return s, nil
}

// post mirrors the bird CLI JSON output. Handle fields vary across bird
// versions, so several spellings are accepted.
type post struct {
	Text   string `json:"text"`
	Author struct {
		Handle     string `json:"handle"`
		Username   string `json:"username"`
		ScreenName string `json:"screen_name"`
	} `json:"author"`
	AuthorHandle string `json:"author_handle"`
	Handle       string `json:"handle"`
	Username     string `json:"username"`
}

func (p post) handle() string {
	for _, candidate := range []string{
		p.Author.Handle, p.Author.Username, p.Author.ScreenName,
		p.AuthorHandle, p.Handle, p.Username,
	} {
		if normalized := NormalizeHandle(candidate); normalized != "" {
			return normalized
		}
	}
	return ""
}

// NormalizeHandle strips the @ prefix and lowercases for comparison.
func NormalizeHandle(v string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "@")))
}

// Scan reads count posts from the home timeline and groups keyword matches
// by handle, dropping handles already in tracked. Suggestions come back
// sorted by match count, then handle.
func (s *Scanner) Scan(ctx context.Context, count int, tracked map[string]bool) (*Report, error) {
	if count < 1 {
		count = 1
	}

	bird := s.birdPath
	if bird == "" {
		found, err := exec.LookPath("bird")
		if err != nil {
			return nil, fmt.Errorf("bird CLI not found: %w", err)
		}
		bird = found
	}

	cmd := exec.CommandContext(ctx, bird, "home", "-n", fmt.Sprint(count), "--json")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("bird home: %s", firstLine(exitErr.Stderr))
		}
		return nil, fmt.Errorf("bird home: %w", err)
	}

	var posts []post
	if err := json.Unmarshal(out, &posts); err != nil {
		return nil, fmt.Errorf("parse bird output: %w", err)
	}

	report := &Report{Scanned: len(posts)}
	grouped := map[string]*Suggestion{}
	for _, p := range posts {
		text := strings.TrimSpace(p.Text)
		if text == "" || !s.matches(text) {
			continue
		}
		report.Matched++

		handle := p.handle()
		if handle == "" || tracked[handle] {
			continue
		}
		if existing, ok := grouped[handle]; ok {
			existing.Matches++
			continue
		}
		grouped[handle] = &Suggestion{Handle: handle, Matches: 1, Sample: sample(text)}
	}

	for _, suggestion := range grouped {
		report.Suggestions = append(report.Suggestions, *suggestion)
	}
	sort.Slice(report.Suggestions, func(i, j int) bool {
		a, b := report.Suggestions[i], report.Suggestions[j]
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return a.Handle < b.Handle
	})
	return report, nil
}

func (s *Scanner) matches(text string) bool {
	for _, re := range s.keywords {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// sample collapses whitespace and caps the quoted post text at 100 runes.
func sample(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= 100 {
		return text
	}
	return strings.TrimSpace(string(runes[:99])) + "..."
}

func firstLine(stderr []byte) string {
	line := strings.SplitN(strings.TrimSpace(string(stderr)), "\n", 2)[0]
	if len(line) > 80 {
		line = line[:80]
	}
	if line == "" {
		line = "exited with error"
	}
	return line
}
