package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wooyangcrm/catalog-migrate/models"
)

// Group collects every item whose name normalizes to the same key.
type Group struct {
	Key   string
	Items []*models.DocumentItem
}

// freqCounter counts occurrences while remembering first-encounter order so
// ties resolve deterministically.
type freqCounter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newFreqCounter[K comparable]() *freqCounter[K] {
	return &freqCounter[K]{counts: map[K]int{}}
}

func (c *freqCounter[K]) Add(k K) {
	if _, seen := c.counts[k]; !seen {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *freqCounter[K]) Len() int { return len(c.order) }

// Top returns the most frequent key and its count; among equal counts the
// first-encountered key wins.
func (c *freqCounter[K]) Top() (K, int) {
	var best K
	bestCount := 0
	for _, k := range c.order {
		if c.counts[k] > bestCount {
			best, bestCount = k, c.counts[k]
		}
	}
	return best, bestCount
}

// GroupItems buckets eligible items by grouping key. Group order is the
// order keys first appear in the input; skipped is the count of annotation
// and degenerate lines excluded from grouping.
func GroupItems(items []*models.DocumentItem) (groups []*Group, skipped int) {
	byKey := map[string]*Group{}
	for _, item := range items {
		if !Eligible(item.Name) {
			skipped++
			continue
		}
		key := NormalizeName(item.Name)
		if key == "" || utf8.RuneCountInString(key) <= 1 {
			skipped++
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.Items = append(g.Items, item)
	}
	return groups, skipped
}

// Candidate is a canonical product derived from one name group, ready to be
// inserted. Codes are externally visible, so their assignment order matters:
// WY-00001 goes to the largest group.
type Candidate struct {
	Key          string
	InternalCode string
	InternalName string
	Unit         string
	ItemIDs      []string
	SpecCount    int
	Items        []*models.DocumentItem
}

// GenerateCode formats the sequential internal product code.
func GenerateCode(index int) string {
	return fmt.Sprintf("WY-%05d", index)
}

// BuildCandidates turns groups into product candidates. Groups are ordered
// by descending size before code assignment; equal-size groups keep the
// order their keys were first produced by grouping.
func BuildCandidates(groups []*Group) []*Candidate {
	ordered := make([]*Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Items) > len(ordered[j].Items)
	})

	candidates := make([]*Candidate, 0, len(ordered))
	for i, g := range ordered {
		names := newFreqCounter[string]()
		units := newFreqCounter[string]()
		specs := map[string]struct{}{}

		itemIDs := make([]string, 0, len(g.Items))
		for _, item := range g.Items {
			itemIDs = append(itemIDs, item.ID)
			names.Add(CleanName(item.Name))
			if s := strings.TrimSpace(item.Spec); s != "" {
				specs[s] = struct{}{}
			}
			if suffix := models.UnitSuffix(item.Quantity); suffix != "" {
				units.Add(suffix)
			}
		}

		displayName, _ := names.Top()
		unit := DefaultUnit
		if units.Len() > 0 {
			raw, _ := units.Top()
			unit = CanonicalUnit(raw)
		}

		candidates = append(candidates, &Candidate{
			Key:          g.Key,
			InternalCode: GenerateCode(i + 1),
			InternalName: displayName,
			Unit:         unit,
			ItemIDs:      itemIDs,
			SpecCount:    len(specs),
			Items:        g.Items,
		})
	}
	return candidates
}
