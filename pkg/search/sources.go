package search

import (
	"context"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/pkg/regional"
)

// Source is one place foods can be searched. Implementations must be safe
// for concurrent use.
type Source interface {
	Provenance() domain.Provenance
	Search(ctx context.Context, userID, query string, limit int) ([]domain.FoodRecord, error)
}

type (
	SharedSearcher interface {
		Search(ctx context.Context, query string, limit int) ([]domain.SharedFoodResponse, error)
	}

	CustomSearcher interface {
		Search(ctx context.Context, userID, query string, limit int) ([]domain.CustomFoodResponse, error)
	}

	RecentLister interface {
		RecentFoods(ctx context.Context, userID string, limit int) ([]domain.FoodRecord, error)
	}

	RecentGetter interface {
		RecentFood(ctx context.Context, userID, id string) (domain.FoodRecord, error)
	}
)

// DefaultRecentWindow is how many distinct recent foods a search looks at.
const DefaultRecentWindow = 50

type regionalSource struct {
	region string
}

// NewRegionalSource searches the bundled datasets. An empty region searches
// all of them.
func NewRegionalSource(region string) Source {
	return &regionalSource{region: region}
}

func (s *regionalSource) Provenance() domain.Provenance { return domain.ProvenanceRegional }

func (s *regionalSource) userIndependent() {}

func (s *regionalSource) Search(_ context.Context, _ string, query string, limit int) ([]domain.FoodRecord, error) {
	found := regional.Search(query, s.region)
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

type sharedSource struct {
	shared SharedSearcher
}

func NewSharedSource(shared SharedSearcher) Source {
	return &sharedSource{shared: shared}
}

func (s *sharedSource) Provenance() domain.Provenance { return domain.ProvenanceShared }

func (s *sharedSource) userIndependent() {}

func (s *sharedSource) Search(ctx context.Context, _ string, query string, limit int) ([]domain.FoodRecord, error) {
	foods, err := s.shared.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FoodRecord, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.Record())
	}
	return out, nil
}

type customSource struct {
	custom CustomSearcher
}

func NewCustomSource(custom CustomSearcher) Source {
	return &customSource{custom: custom}
}

func (s *customSource) Provenance() domain.Provenance { return domain.ProvenanceUserCustom }

func (s *customSource) Search(ctx context.Context, userID, query string, limit int) ([]domain.FoodRecord, error) {
	foods, err := s.custom.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FoodRecord, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.Record())
	}
	return out, nil
}

type recentSource struct {
	recent RecentLister
	window int
}

// NewRecentSource filters the user's recent foods by name. window bounds how
// many recent foods are considered.
func NewRecentSource(recent RecentLister, window int) Source {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	return &recentSource{recent: recent, window: window}
}

func (s *recentSource) Provenance() domain.Provenance { return domain.ProvenanceRecent }

func (s *recentSource) Search(ctx context.Context, userID, query string, limit int) ([]domain.FoodRecord, error) {
	foods, err := s.recent.RecentFoods(ctx, userID, s.window)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []domain.FoodRecord
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
