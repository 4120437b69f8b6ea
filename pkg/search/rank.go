package search

import (
	"sort"
	"strings"

	"calorie-tracker/domain"
)

const (
	tierExact = iota
	tierPrefix
	tierOther
)

func tier(name, query string) int {
	switch {
	case name == query:
		return tierExact
	case strings.HasPrefix(name, query):
		return tierPrefix
	}
	return tierOther
}

// Rank deduplicates records by case-insensitive name, keeping the one from
// the highest priority source, then orders exact matches first, prefix
// matches second and the rest last. Within a tier names sort alphabetically
// ignoring case, with source priority breaking ties. At most limit records
// are returned.
func Rank(records []domain.FoodRecord, query string, limit int) []domain.FoodRecord {
	q := strings.ToLower(strings.TrimSpace(query))

	best := make(map[string]int, len(records))
	unique := make([]domain.FoodRecord, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if key == "" {
			continue
		}
		if i, ok := best[key]; ok {
			if r.Provenance.Priority() > unique[i].Provenance.Priority() {
				unique[i] = r
			}
			continue
		}
		best[key] = len(unique)
		unique = append(unique, r)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if ta, tb := tier(an, q), tier(bn, q); ta != tb {
			return ta < tb
		}
		if an != bn {
			return an < bn
		}
		return a.Provenance.Priority() > b.Provenance.Priority()
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
