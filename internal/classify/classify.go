// Package classify labels items as breaking or ordinary using configured
// lexical signatures. The pattern sets are data; nothing in here knows any
// company or product name.
package classify

import (
	"fmt"
	"regexp"

	"github.com/terry-li-hm/lustro/internal/models"
)

// Label is the classification outcome.
type Label int

const (
	Ordinary Label = iota
	Breaking
)

func (l Label) String() string {
	if l == Breaking {
		return "breaking"
	}
	return "ordinary"
}

// Patterns holds the three signature sets as regex strings. Entities and
// actions must both match for an item to be breaking; any negative match
// vetoes it.
type Patterns struct {
	Entities  []string `yaml:"entities"`
	Actions   []string `yaml:"actions"`
	Negatives []string `yaml:"negatives"`
}

// Classifier matches item text against compiled pattern sets.
type Classifier struct {
	entities  []*regexp.Regexp
	actions   []*regexp.Regexp
	negatives []*regexp.Regexp
}

// New compiles the pattern sets. All matching is case-insensitive. A pattern
// that fails to compile is a configuration error.
func New(p Patterns) (*Classifier, error) {
	c := &Classifier{}
	var err error
	if c.entities, err = compileAll("entities", p.Entities); err != nil {
		return nil, err
	}
	if c.actions, err = compileAll("actions", p.Actions); err != nil {
		return nil, err
	}
	if c.negatives, err = compileAll("negatives", p.Negatives); err != nil {
		return nil, err
	}
	return c, nil
}

func compileAll(set string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", set, pat, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Classify labels an item. Only tier-1 sources are eligible; everything else
// is ordinary regardless of text. Breaking requires at least one entity match
// AND at least one action match AND zero negative matches, trading recall for
// precision.
func (c *Classifier) Classify(item models.Item) Label {
	if item.Tier != 1 {
		return Ordinary
	}
	text := item.Text()
	if !anyMatch(c.entities, text) {
		return Ordinary
	}
	if !anyMatch(c.actions, text) {
		return Ordinary
	}
	if anyMatch(c.negatives, text) {
		return Ordinary
	}
	return Breaking
}

func anyMatch(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
