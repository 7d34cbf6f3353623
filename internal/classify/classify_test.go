package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terry-li-hm/lustro/internal/models"
)

func testPatterns() Patterns {
	return Patterns{
		Entities:  []string{`\b(anthropic|openai|deepmind|mistral)\b`, `\b(gpt[-\s]?\d|claude[-\s]?\d|gemini[-\s]?\d)\b`},
		Actions:   []string{`\b(launch(es|ed)?|release[sd]?|announc|unveil|open.?sourc)`, `\b(acquir|shut.?down|ban[s]?\b)`},
		Negatives: []string{`\b(partner|collaborat|hiring|hire[sd]|podcast|interview|webinar)\b`, `\b(round|funding|series\s[a-d])\b`},
	}
}

func tier1(title string) models.Item {
	return models.Item{SourceName: "Lab Blog", Title: title, Tier: 1}
}

func TestClassify(t *testing.T) {
	c, err := New(testPatterns())
	require.NoError(t, err)

	tests := []struct {
		name string
		item models.Item
		want Label
	}{
		{
			name: "entity plus action is breaking",
			item: tier1("OpenAI launches new model"),
			want: Breaking,
		},
		{
			name: "negative pattern vetoes entity plus action",
			item: tier1("Anthropic announces new funding round"),
			want: Ordinary,
		},
		{
			name: "entity without action",
			item: tier1("Anthropic publishes interpretability retrospective"),
			want: Ordinary,
		},
		{
			name: "action without entity",
			item: tier1("Startup launches productivity app"),
			want: Ordinary,
		},
		{
			name: "case insensitive",
			item: tier1("DEEPMIND UNVEILS weather system"),
			want: Breaking,
		},
		{
			name: "hiring veto",
			item: tier1("OpenAI announces it is hiring across safety teams"),
			want: Ordinary,
		},
		{
			name: "lower tier is always ordinary",
			item: models.Item{SourceName: "Aggregator", Title: "OpenAI launches new model", Tier: 2},
			want: Ordinary,
		},
		{
			name: "summary text counts",
			item: models.Item{
				SourceName: "Lab Blog",
				Title:      "Weekly update",
				Summary:    "Mistral released a new open weight model today",
				Tier:       1,
			},
			want: Breaking,
		},
		{
			name: "empty title",
			item: tier1(""),
			want: Ordinary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.item), "title: %s", tt.item.Title)
		})
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(Patterns{Entities: []string{`(unclosed`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entities")
}

func TestEmptyPatternSetsNeverMatch(t *testing.T) {
	c, err := New(Patterns{})
	require.NoError(t, err)
	assert.Equal(t, Ordinary, c.Classify(tier1("OpenAI launches new model")))
}
