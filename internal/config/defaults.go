package config

import "github.com/terry-li-hm/lustro/internal/classify"

// DefaultPatterns returns the built-in breaking-news signatures, used when
// the sources file does not define its own.
func DefaultPatterns() classify.Patterns {
	return classify.Patterns{
		Entities: []string{
			`\b(anthropic|openai|open\s?ai|google\s?deepmind|deepmind|meta\s?ai|mistral|x\.?ai|grok)\b`,
			`\b(hkma|mas|sec|eu\s?ai\s?act|pboc)\b`,
			`\b(gpt[-\s]?\d|claude[-\s]?\d|gemini[-\s]?\d|llama[-\s]?\d)\b`,
			`\b(o[1-9][-\s]|sonnet|opus|haiku)\b`,
		},
		Actions: []string{
			`\b(launch(es|ed)?|release[sd]?)\b`,
			`\b(introduc|announc|unveil)`,
			`open.?sourc`,
			`\b(acquir|merg|shut.?down)`,
			`\b(ban[s]?\b|mandat)`,
		},
		Negatives: []string{
			`\b(partner|collaborat)`,
			`\b(hiring|hire[sd]|recrui)`,
			`\b(podcast|interview|webinar)\b`,
			`\b(round|funding|series\s[a-d])\b`,
		},
	}
}

// DefaultSourcesYAML is the starter sources file written by `lustro init`
// and used when no sources file exists yet.
const DefaultSourcesYAML = `# lustro sources
#
# tier 1 sources are eligible for breaking-news alerts.
# cadence: daily | twice_weekly | weekly | biweekly | monthly

web_sources:
  - name: Anthropic News
    rss: https://www.anthropic.com/rss.xml
    url: https://www.anthropic.com/news
    tier: 1
    cadence: daily

  - name: OpenAI Blog
    rss: https://openai.com/blog/rss.xml
    url: https://openai.com/blog
    tier: 1
    cadence: daily

  - name: Google DeepMind Blog
    url: https://deepmind.google/discover/blog/
    tier: 1
    cadence: daily

  - name: Simon Willison
    rss: https://simonwillison.net/atom/everything/
    tier: 2
    cadence: twice_weekly

x_accounts:
  - handle: "@AnthropicAI"
    tier: 1
    cadence: daily
`
