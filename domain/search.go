package domain

import (
	"errors"
	"strings"
)

const (
	DefaultSearchLimit = 50
	MinQueryLength     = 2
)

var (
	MessageSuccessSearchFoods = "foods retrieved successfully"
	MessageFailedSearchFoods  = "failed to search foods"

	MessageSuccessGetRegionalFoods = "regional foods retrieved successfully"
	MessageFailedGetRegionalFoods  = "failed to retrieve regional foods"

	ErrInvalidQuery       = errors.New("invalid query")
	ErrNoSourcesAvailable = errors.New("all sources unavailable")
)

type (
	// SourceFilter selects which sources a search may query. The zero value
	// selects every source.
	SourceFilter []Provenance

	SearchRequest struct {
		Query   string
		Sources SourceFilter
		Limit   int
	}

	SourceFailure struct {
		Source Provenance `json:"source"`
		Error  string     `json:"error"`
	}

	SearchResponse struct {
		Query   string          `json:"query"`
		Results []FoodRecord    `json:"results"`
		Failed  []SourceFailure `json:"failed_sources,omitempty"`
	}
)

func (f SourceFilter) Includes(p Provenance) bool {
	if len(f) == 0 {
		return true
	}
	for _, s := range f {
		if s == p {
			return true
		}
	}
	return false
}

// ParseSourceFilter reads a comma separated list such as "shared,custom".
// An empty string or "all" selects every source.
func ParseSourceFilter(s string) (SourceFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}
	var filter SourceFilter
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParseProvenance(part)
		if err != nil {
			return nil, err
		}
		if !filter.contains(p) {
			filter = append(filter, p)
		}
	}
	return filter, nil
}

func (f SourceFilter) contains(p Provenance) bool {
	for _, s := range f {
		if s == p {
			return true
		}
	}
	return false
}
