package sharedfood

import (
	"context"
	"strings"

	"calorie-tracker/entities"

	"gorm.io/gorm"
)

const (
	SortPopular = "popular"
	SortNewest  = "newest"
)

type (
	SharedFoodRepository interface {
		Create(ctx context.Context, food *entities.SharedFood) error
		BulkCreate(ctx context.Context, foods []*entities.SharedFood) error
		GetByID(ctx context.Context, id string) (*entities.SharedFood, error)
		List(ctx context.Context, sort string, page, limit int) ([]*entities.SharedFood, int64, error)
		Search(ctx context.Context, query string, limit int) ([]*entities.SharedFood, error)
		All(ctx context.Context) ([]*entities.SharedFood, error)
		Update(ctx context.Context, food *entities.SharedFood) error
		IncrementLikes(ctx context.Context, id string) error
		IncrementUsage(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
		DeleteAll(ctx context.Context) (int64, error)
	}

	sharedFoodRepository struct {
		db *gorm.DB
	}
)

func NewSharedFoodRepository(db *gorm.DB) SharedFoodRepository {
	return &sharedFoodRepository{db: db}
}

func (r *sharedFoodRepository) Create(ctx context.Context, food *entities.SharedFood) error {
	return r.db.WithContext(ctx).Create(food).Error
}

func (r *sharedFoodRepository) BulkCreate(ctx context.Context, foods []*entities.SharedFood) error {
	if len(foods) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(foods, 100).Error
}

func (r *sharedFoodRepository) GetByID(ctx context.Context, id string) (*entities.SharedFood, error) {
	var food entities.SharedFood
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *sharedFoodRepository) List(ctx context.Context, sort string, page, limit int) ([]*entities.SharedFood, int64, error) {
	var foods []*entities.SharedFood
	var count int64

	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.SharedFood{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx)
	switch sort {
	case SortPopular:
		query = query.Order("usage_count desc").Order("likes desc").Order("item_name asc")
	default:
		query = query.Order("created_at desc").Order("item_name asc")
	}

	if err := query.Offset(offset).Limit(limit).Find(&foods).Error; err != nil {
		return nil, 0, err
	}

	return foods, count, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *sharedFoodRepository) Search(ctx context.Context, query string, limit int) ([]*entities.SharedFood, error) {
	var foods []*entities.SharedFood
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"

	if err := r.db.WithContext(ctx).
		Where(`LOWER(item_name) LIKE ? ESCAPE '\'`, pattern).
		Order("usage_count desc").
		Order("item_name asc").
		Limit(limit).
		Find(&foods).Error; err != nil {
		return nil, err
	}

	return foods, nil
}

func (r *sharedFoodRepository) All(ctx context.Context) ([]*entities.SharedFood, error) {
	var foods []*entities.SharedFood
	if err := r.db.WithContext(ctx).Order("item_name asc").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

func (r *sharedFoodRepository) Update(ctx context.Context, food *entities.SharedFood) error {
	return r.db.WithContext(ctx).Save(food).Error
}

// increment bumps a counter in place so concurrent callers never overwrite
// each other.
func (r *sharedFoodRepository) increment(ctx context.Context, id, column string) error {
	res := r.db.WithContext(ctx).Model(&entities.SharedFood{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sharedFoodRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, id, "likes")
}

func (r *sharedFoodRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.increment(ctx, id, "usage_count")
}

func (r *sharedFoodRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.SharedFood{}).Error
}

func (r *sharedFoodRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entities.SharedFood{})
	return res.RowsAffected, res.Error
}
