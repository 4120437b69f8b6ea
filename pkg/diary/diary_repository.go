package diary

import (
	"context"

	"calorie-tracker/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DiaryRepository interface {
		Create(ctx context.Context, entry *entities.FoodEntry) error
		GetByID(ctx context.Context, id string) (*entities.FoodEntry, error)
		Update(ctx context.Context, entry *entities.FoodEntry) error
		Delete(ctx context.Context, id string) error
		ListByDate(ctx context.Context, userID, date string) ([]*entities.FoodEntry, error)
		Recent(ctx context.Context, userID string, limit int) ([]*entities.FoodEntry, error)
		LatestByFood(ctx context.Context, userID, foodID string) (*entities.FoodEntry, error)
	}

	diaryRepository struct {
		db *gorm.DB
	}
)

func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, entry *entities.FoodEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *diaryRepository) GetByID(ctx context.Context, id string) (*entities.FoodEntry, error) {
	var entry entities.FoodEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *diaryRepository) Update(ctx context.Context, entry *entities.FoodEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *diaryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FoodEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *diaryRepository) ListByDate(ctx context.Context, userID, date string) ([]*entities.FoodEntry, error) {
	var entries []*entities.FoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepository) Recent(ctx context.Context, userID string, limit int) ([]*entities.FoodEntry, error) {
	var entries []*entities.FoodEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// LatestByFood returns the user's newest entry for a food. Entries logged
// without a food ID are matched on their own ID instead.
func (r *diaryRepository) LatestByFood(ctx context.Context, userID, foodID string) (*entities.FoodEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if id, err := uuid.Parse(foodID); err == nil {
		query = query.Where("food_id = ? OR id = ?", foodID, id)
	} else {
		query = query.Where("food_id = ?", foodID)
	}

	var entry entities.FoodEntry
	if err := query.Order("created_at desc").First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
