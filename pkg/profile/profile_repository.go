package profile

import (
	"context"

	"calorie-tracker/entities"

	"gorm.io/gorm"
)

type (
	ProfileRepository interface {
		GetByUserID(ctx context.Context, userID string) (*entities.Profile, error)
		Save(ctx context.Context, profile *entities.Profile) error
	}

	profileRepository struct {
		db *gorm.DB
	}
)

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save inserts the profile or overwrites the existing row.
func (r *profileRepository) Save(ctx context.Context, profile *entities.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
