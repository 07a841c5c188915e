package shiftstats

import (
	"strings"

	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// Unspecified is the bucket for shifts without a value for the grouping key.
const Unspecified = "unspecified"

// KeyFunc returns the buckets a shift belongs to. Returning several keys
// counts the shift in each of them.
type KeyFunc func(models.Shift) []string

func ByLocation(s models.Shift) []string {
	return []string{orUnspecified(s.Location)}
}

func ByWeather(s models.Shift) []string {
	return []string{orUnspecified(s.Weather)}
}

func ByTag(s models.Shift) []string {
	if len(s.Tags) == 0 {
		return []string{Unspecified}
	}
	seen := make(map[string]struct{}, len(s.Tags))
	keys := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		t = orUnspecified(t)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		keys = append(keys, t)
	}
	return keys
}

// GroupBy buckets records by key and summarizes each bucket.
func GroupBy(records []models.Shift, key KeyFunc) map[string]Totals {
	groups := make(map[string][]models.Shift)
	for _, r := range records {
		for _, k := range key(r) {
			groups[k] = append(groups[k], r)
		}
	}

	result := make(map[string]Totals, len(groups))
	for k, items := range groups {
		result[k] = Summarize(items)
	}
	return result
}

func orUnspecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unspecified
	}
	return s
}
