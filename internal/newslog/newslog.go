// Package newslog maintains the append-only markdown news log: date
// sections, one-line entries, line-count rotation.
package newslog

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/terry-li-hm/lustro/internal/atomicfile"
	"github.com/terry-li-hm/lustro/internal/models"
)

var sectionHeader = regexp.MustCompile(`^## (\d{4}-\d{2}-\d{2})`)

// Marker separates an optional hand-written preamble from the generated
// entries. Sections are only ever inserted below it.
const Marker = "<!-- News entries below -->"

// Writer owns the log file. Date sections are ordered newest-first; entries
// within a section keep their append order. When the total line count
// exceeds maxLines, the oldest whole sections are dropped until the log fits,
// but the newest section is never dropped or split.
type Writer struct {
	path     string
	maxLines int
}

type section struct {
	date  string
	lines []string // entry lines, no header, no trailing blanks
}

// NewWriter creates a writer for the log at path with the given rotation
// threshold.
func NewWriter(path string, maxLines int) *Writer {
	return &Writer{path: path, maxLines: maxLines}
}

// Path returns the log file path.
func (w *Writer) Path() string { return w.path }

// FormatEntry renders one log line.
func FormatEntry(e models.LogEntry) string {
	title := sanitize(e.Title)
	titlePart := title
	if e.URL != "" {
		titlePart = fmt.Sprintf("[%s](%s)", title, e.URL)
	}
	line := fmt.Sprintf("- **%s** (%s)", titlePart, e.SourceName)
	if e.Date != "" {
		line += fmt.Sprintf(" [%s]", e.Date)
	}
	if e.Summary != "" {
		line += " - " + sanitize(e.Summary)
	}
	return line
}

// sanitize strips newlines and escapes a leading markdown control character
// so a hostile title cannot forge headers or entries.
func sanitize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if strings.HasPrefix(text, "#") || strings.HasPrefix(text, "-") ||
		strings.HasPrefix(text, ">") || strings.HasPrefix(text, "!") {
		text = "\\" + text
	}
	return text
}

// Append writes entries under the date section for now, creating the section
// at the top when absent, then rotates. Append and rotation land in one
// atomic file replace.
func (w *Writer) Append(entries []models.LogEntry, now time.Time) error {
	if len(entries) == 0 {
		return nil
	}
	preamble, sections, err := w.parse()
	if err != nil {
		return err
	}

	today := now.UTC().Format("2006-01-02")
	var target *section
	for i := range sections {
		if sections[i].date == today {
			target = &sections[i]
			break
		}
	}
	if target == nil {
		sections = append([]section{{date: today}}, sections...)
		target = &sections[0]
	}
	for _, e := range entries {
		target.lines = append(target.lines, FormatEntry(e))
	}

	sections = w.rotate(preamble, sections)
	return atomicfile.WriteFile(w.path, []byte(render(preamble, sections)), 0o644)
}

// rotate drops oldest whole sections until the rendered log is at or under
// the threshold. The newest section always survives.
func (w *Writer) rotate(preamble []string, sections []section) []section {
	if w.maxLines <= 0 {
		return sections
	}
	for len(sections) > 1 && lineCount(preamble, sections) > w.maxLines {
		sections = sections[:len(sections)-1]
	}
	return sections
}

func (w *Writer) parse() (preamble []string, sections []section, err error) {
	data, err := os.ReadFile(w.path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read log: %w", err)
	}

	var cur *section
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			sections = append(sections, section{date: m[1]})
			cur = &sections[len(sections)-1]
			continue
		}
		if cur == nil {
			preamble = append(preamble, line)
			continue
		}
		cur.lines = append(cur.lines, line)
	}

	// Blank separator lines are re-added on render.
	for len(preamble) > 0 && strings.TrimSpace(preamble[len(preamble)-1]) == "" {
		preamble = preamble[:len(preamble)-1]
	}
	for i := range sections {
		for len(sections[i].lines) > 0 && strings.TrimSpace(sections[i].lines[len(sections[i].lines)-1]) == "" {
			sections[i].lines = sections[i].lines[:len(sections[i].lines)-1]
		}
	}
	return preamble, sections, nil
}

func render(preamble []string, sections []section) string {
	var b strings.Builder
	for _, line := range preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for i, sec := range sections {
		if i > 0 || len(preamble) > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("## " + sec.date + "\n")
		for _, line := range sec.lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func lineCount(preamble []string, sections []section) int {
	return strings.Count(render(preamble, sections), "\n")
}

// LineCount returns the current number of lines in the log file.
func (w *Writer) LineCount() (int, error) {
	preamble, sections, err := w.parse()
	if err != nil {
		return 0, err
	}
	if preamble == nil && sections == nil {
		return 0, nil
	}
	return lineCount(preamble, sections), nil
}

// Tail returns the last n lines of the log, the whole file when n <= 0.
func (w *Writer) Tail(n int) ([]string, error) {
	data, err := os.ReadFile(w.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if n > 0 && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
