package diary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/entities"

	"gorm.io/gorm"
)

const (
	defaultRecentLimit = 20
	maxRecentScan      = 200
)

func recentRecord(e *entities.FoodEntry) domain.FoodRecord {
	id := e.FoodID
	if id == "" {
		id = e.ID.String()
	}
	return domain.FoodRecord{
		ID:         id,
		Name:       e.FoodName,
		Serving:    domain.Serving{Amount: 1, Unit: "serving"},
		Macros:     baseOf(e).Sanitize(),
		Provenance: domain.ProvenanceRecent,
	}
}

// RecentFoods returns the distinct foods the user logged most recently,
// newest first. Only a bounded window of entries is scanned.
func (s *diaryService) RecentFoods(ctx context.Context, userID string, limit int) ([]domain.FoodRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	scan := limit * 5
	if scan > maxRecentScan {
		scan = maxRecentScan
	}

	entries, err := s.diaryRepository.Recent(ctx, userID, scan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]domain.FoodRecord, 0, limit)
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.FoodName))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, recentRecord(e))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// RecentFood looks one recent food up by the ID RecentFoods reported for it,
// however far back it was logged.
func (s *diaryService) RecentFood(ctx context.Context, userID, id string) (domain.FoodRecord, error) {
	if strings.TrimSpace(id) == "" {
		return domain.FoodRecord{}, domain.ErrFoodNotFound
	}
	entry, err := s.diaryRepository.LatestByFood(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FoodRecord{}, domain.ErrFoodNotFound
		}
		return domain.FoodRecord{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return recentRecord(entry), nil
}
