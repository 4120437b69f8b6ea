package customfood

import (
	"context"
	"errors"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CustomFoodService interface {
		Create(ctx context.Context, req domain.CustomFoodRequest, userID string) (domain.CustomFoodResponse, error)
		GetByID(ctx context.Context, id string, userID string) (domain.CustomFoodResponse, error)
		List(ctx context.Context, userID string, page, limit int) ([]domain.CustomFoodResponse, int64, error)
		Search(ctx context.Context, userID, query string, limit int) ([]domain.CustomFoodResponse, error)
		Update(ctx context.Context, id string, req domain.CustomFoodRequest, userID string) (domain.CustomFoodResponse, error)
		Delete(ctx context.Context, id string, userID string) error
	}

	customFoodService struct {
		customFoodRepository CustomFoodRepository
	}
)

func NewCustomFoodService(customFoodRepository CustomFoodRepository) CustomFoodService {
	return &customFoodService{
		customFoodRepository: customFoodRepository,
	}
}

func toResponse(f *entities.CustomFood) domain.CustomFoodResponse {
	return domain.CustomFoodResponse{
		ID:       f.ID.String(),
		UserID:   f.UserID,
		Name:     f.Name,
		Category: f.Category,
		Serving:  domain.Serving{Amount: f.ServingAmount, Unit: f.ServingUnit},
		Macros: domain.Macros{
			Calories: f.Calories,
			Protein:  f.Protein,
			Carbs:    f.Carbs,
			Fat:      f.Fat,
			Fiber:    f.Fiber,
			Sugar:    f.Sugar,
			Sodium:   f.Sodium,
		},
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func apply(f *entities.CustomFood, req domain.CustomFoodRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Calories == nil {
		return domain.ErrMissingRequiredField
	}

	f.Name = name
	f.Category = strings.TrimSpace(req.Category)
	f.ServingAmount = req.ServingAmount
	if f.ServingAmount <= 0 {
		f.ServingAmount = 1
	}
	f.ServingUnit = strings.TrimSpace(req.ServingUnit)
	if f.ServingUnit == "" {
		f.ServingUnit = "serving"
	}
	f.Calories = domain.NonNegative(*req.Calories)
	f.Protein = domain.NonNegative(req.Protein)
	f.Carbs = domain.NonNegative(req.Carbs)
	f.Fat = domain.NonNegative(req.Fat)
	f.Fiber = domain.NonNegative(req.Fiber)
	f.Sugar = domain.NonNegative(req.Sugar)
	f.Sodium = domain.NonNegative(req.Sodium)
	f.Description = req.Description
	return nil
}

// load fetches a food and checks that userID owns it.
func (s *customFoodService) load(ctx context.Context, id, userID string) (*entities.CustomFood, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrCustomFoodNotFound
	}
	food, err := s.customFoodRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomFoodNotFound
		}
		return nil, err
	}
	if food.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return food, nil
}

func (s *customFoodService) Create(ctx context.Context, req domain.CustomFoodRequest, userID string) (domain.CustomFoodResponse, error) {
	food := &entities.CustomFood{UserID: userID}
	if err := apply(food, req); err != nil {
		return domain.CustomFoodResponse{}, err
	}

	if err := s.customFoodRepository.Create(ctx, food); err != nil {
		return domain.CustomFoodResponse{}, err
	}
	return toResponse(food), nil
}

func (s *customFoodService) GetByID(ctx context.Context, id string, userID string) (domain.CustomFoodResponse, error) {
	food, err := s.load(ctx, id, userID)
	if err != nil {
		return domain.CustomFoodResponse{}, err
	}
	return toResponse(food), nil
}

func (s *customFoodService) List(ctx context.Context, userID string, page, limit int) ([]domain.CustomFoodResponse, int64, error) {
	foods, count, err := s.customFoodRepository.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.CustomFoodResponse, 0, len(foods))
	for _, f := range foods {
		res = append(res, toResponse(f))
	}
	return res, count, nil
}

func (s *customFoodService) Search(ctx context.Context, userID, query string, limit int) ([]domain.CustomFoodResponse, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidQuery
	}
	foods, err := s.customFoodRepository.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}

	res := make([]domain.CustomFoodResponse, 0, len(foods))
	for _, f := range foods {
		res = append(res, toResponse(f))
	}
	return res, nil
}

func (s *customFoodService) Update(ctx context.Context, id string, req domain.CustomFoodRequest, userID string) (domain.CustomFoodResponse, error) {
	food, err := s.load(ctx, id, userID)
	if err != nil {
		return domain.CustomFoodResponse{}, err
	}

	updated := *food
	if err := apply(&updated, req); err != nil {
		return domain.CustomFoodResponse{}, err
	}

	if err := s.customFoodRepository.Update(ctx, &updated); err != nil {
		return domain.CustomFoodResponse{}, err
	}
	return toResponse(&updated), nil
}

func (s *customFoodService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.load(ctx, id, userID); err != nil {
		return err
	}
	return s.customFoodRepository.Delete(ctx, id)
}
