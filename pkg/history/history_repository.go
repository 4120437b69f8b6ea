package history

import (
	"context"

	"calorie-tracker/domain"
	"calorie-tracker/entities"

	"gorm.io/gorm"
)

type (
	HistoryRepository interface {
		CreateWeight(ctx context.Context, w *entities.WeightLog) error
		GetWeight(ctx context.Context, id string) (*entities.WeightLog, error)
		ListWeights(ctx context.Context, userID, from, to string) ([]*entities.WeightLog, error)
		DeleteWeight(ctx context.Context, id string) error
		DailyTotals(ctx context.Context, userID, from, to string) ([]domain.DailyNutrition, error)
	}

	historyRepository struct {
		db *gorm.DB
	}
)

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) CreateWeight(ctx context.Context, w *entities.WeightLog) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *historyRepository) GetWeight(ctx context.Context, id string) (*entities.WeightLog, error) {
	var w entities.WeightLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *historyRepository) ListWeights(ctx context.Context, userID, from, to string) ([]*entities.WeightLog, error) {
	var logs []*entities.WeightLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date asc, created_at asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *historyRepository) DeleteWeight(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.WeightLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DailyTotals sums the user's diary per day. Days without entries are absent.
func (r *historyRepository) DailyTotals(ctx context.Context, userID, from, to string) ([]domain.DailyNutrition, error) {
	var days []domain.DailyNutrition
	if err := r.db.WithContext(ctx).
		Model(&entities.FoodEntry{}).
		Select(`date,
			COALESCE(SUM(calories), 0) AS calories,
			COALESCE(SUM(protein), 0) AS protein,
			COALESCE(SUM(carbs), 0) AS carbs,
			COALESCE(SUM(fat), 0) AS fat,
			COUNT(*) AS entries`).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Group("date").
		Order("date asc").
		Scan(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}
