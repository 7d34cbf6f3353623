// Package dedup partitions fetched items into new and already-seen.
package dedup

import (
	"github.com/terry-li-hm/lustro/internal/fingerprint"
	"github.com/terry-li-hm/lustro/internal/models"
	"github.com/terry-li-hm/lustro/internal/state"
)

// Tagged pairs an item with its computed fingerprint.
type Tagged struct {
	Item        models.Item
	Fingerprint string
}

// Partition splits items into new and duplicate slices, preserving input
// order. An item is new iff its fingerprint is absent from seen; repeats
// within the same batch count as duplicates after the first occurrence, even
// though they were never persisted. Sources sometimes return the same entry
// twice in one fetch.
func Partition(items []models.Item, seen state.SeenSet) (fresh, duplicates []Tagged) {
	inBatch := map[string]bool{}
	for _, item := range items {
		fp := fingerprint.Fingerprint(item)
		tagged := Tagged{Item: item, Fingerprint: fp}
		if seen.Contains(fp) || inBatch[fp] {
			duplicates = append(duplicates, tagged)
			continue
		}
		inBatch[fp] = true
		fresh = append(fresh, tagged)
	}
	return fresh, duplicates
}
