package customfood

import (
	"context"
	"strings"

	"calorie-tracker/entities"

	"gorm.io/gorm"
)

type (
	CustomFoodRepository interface {
		Create(ctx context.Context, food *entities.CustomFood) error
		GetByID(ctx context.Context, id string) (*entities.CustomFood, error)
		ListByUser(ctx context.Context, userID string, page, limit int) ([]*entities.CustomFood, int64, error)
		Search(ctx context.Context, userID, query string, limit int) ([]*entities.CustomFood, error)
		Update(ctx context.Context, food *entities.CustomFood) error
		Delete(ctx context.Context, id string) error
	}

	customFoodRepository struct {
		db *gorm.DB
	}
)

func NewCustomFoodRepository(db *gorm.DB) CustomFoodRepository {
	return &customFoodRepository{db: db}
}

func (r *customFoodRepository) Create(ctx context.Context, food *entities.CustomFood) error {
	return r.db.WithContext(ctx).Create(food).Error
}

func (r *customFoodRepository) GetByID(ctx context.Context, id string) (*entities.CustomFood, error) {
	var food entities.CustomFood
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *customFoodRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*entities.CustomFood, int64, error) {
	var foods []*entities.CustomFood
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.CustomFood{}).Where("user_id = ?", userID)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset((page - 1) * limit).Limit(limit).Order("name asc").Find(&foods).Error; err != nil {
		return nil, 0, err
	}

	return foods, count, nil
}

func (r *customFoodRepository) Search(ctx context.Context, userID, query string, limit int) ([]*entities.CustomFood, error) {
	var foods []*entities.CustomFood
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) LIKE ?", userID, pattern).
		Order("name asc").
		Limit(limit).
		Find(&foods).Error; err != nil {
		return nil, err
	}

	return foods, nil
}

func (r *customFoodRepository) Update(ctx context.Context, food *entities.CustomFood) error {
	return r.db.WithContext(ctx).Save(food).Error
}

func (r *customFoodRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.CustomFood{}).Error
}
