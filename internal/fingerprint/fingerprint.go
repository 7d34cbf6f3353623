// Package fingerprint derives a stable content identity for ingested items.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/terry-li-hm/lustro/internal/models"
)

// trackingParams are query parameters that never change the identity of a
// linked article and are stripped before hashing.
var trackingParams = map[string]bool{
	"ref":        true,
	"source":     true,
	"fbclid":     true,
	"gclid":      true,
	"mc_cid":     true,
	"mc_eid":     true,
	"igshid":     true,
	"cmpid":      true,
	"share_type": true,
}

// Fingerprint returns a 16-hex-character digest identifying an item across
// runs. Identity is the canonical URL when one exists, otherwise the
// normalized title; the whole identity is lowercased before hashing.
// Deterministic and total: malformed input still yields a valid digest.
func Fingerprint(item models.Item) string {
	identity := CanonicalURL(item.URL)
	if identity == "" {
		identity = normalizeTitle(item.Title)
	}
	raw := strings.ToLower(strings.TrimSpace(item.SourceName)) + "|" + strings.ToLower(identity)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

// CanonicalURL normalizes a URL for identity comparison: lowercases the
// scheme and host, trims whitespace, drops fragments and known tracking
// query parameters (utm_* and friends). Returns "" for empty or unparseable
// input so callers can fall back to title identity.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") || trackingParams[lower] {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	return strings.TrimSuffix(u.String(), "?")
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
