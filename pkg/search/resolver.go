package search

import (
	"context"
	"fmt"

	"calorie-tracker/domain"
	"calorie-tracker/pkg/regional"
)

type (
	SharedGetter interface {
		GetByID(ctx context.Context, id string) (domain.SharedFoodResponse, error)
	}

	CustomGetter interface {
		GetByID(ctx context.Context, id string, userID string) (domain.CustomFoodResponse, error)
	}
)

// Resolver looks a single food up in the source it came from.
type Resolver struct {
	Shared SharedGetter
	Custom CustomGetter
	Recent RecentGetter
}

func (r *Resolver) Resolve(ctx context.Context, userID string, source domain.Provenance, id string) (domain.FoodRecord, error) {
	switch source {
	case domain.ProvenanceRegional:
		return regional.Get(id)
	case domain.ProvenanceShared:
		if r.Shared == nil {
			return domain.FoodRecord{}, domain.ErrFoodNotFound
		}
		food, err := r.Shared.GetByID(ctx, id)
		if err != nil {
			return domain.FoodRecord{}, err
		}
		return food.Record(), nil
	case domain.ProvenanceUserCustom:
		if r.Custom == nil {
			return domain.FoodRecord{}, domain.ErrFoodNotFound
		}
		food, err := r.Custom.GetByID(ctx, id, userID)
		if err != nil {
			return domain.FoodRecord{}, err
		}
		return food.Record(), nil
	case domain.ProvenanceRecent:
		if r.Recent == nil {
			return domain.FoodRecord{}, domain.ErrFoodNotFound
		}
		return r.Recent.RecentFood(ctx, userID, id)
	}
	return domain.FoodRecord{}, fmt.Errorf("%w: %d", domain.ErrUnknownProvenance, int(source))
}
