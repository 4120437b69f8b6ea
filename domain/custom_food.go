package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateCustomFood = "custom food created successfully"
	MessageSuccessUpdateCustomFood = "custom food updated successfully"
	MessageSuccessDeleteCustomFood = "custom food deleted successfully"
	MessageSuccessGetCustomFoods   = "custom foods retrieved successfully"

	MessageFailedCreateCustomFood = "failed to create custom food"
	MessageFailedUpdateCustomFood = "failed to update custom food"
	MessageFailedDeleteCustomFood = "failed to delete custom food"
	MessageFailedGetCustomFoods   = "failed to retrieve custom foods"

	ErrCustomFoodNotFound = errors.New("custom food not found")
)

type (
	CustomFoodRequest struct {
		Name          string   `json:"name" validate:"required,max=200"`
		Category      string   `json:"category" validate:"omitempty,max=100"`
		ServingAmount float64  `json:"serving_amount" validate:"omitempty,gt=0"`
		ServingUnit   string   `json:"serving_unit" validate:"omitempty,max=50"`
		Calories      *float64 `json:"calories" validate:"required,gte=0"`
		Protein       float64  `json:"protein" validate:"gte=0"`
		Carbs         float64  `json:"carbs" validate:"gte=0"`
		Fat           float64  `json:"fat" validate:"gte=0"`
		Fiber         float64  `json:"fiber" validate:"gte=0"`
		Sugar         float64  `json:"sugar" validate:"gte=0"`
		Sodium        float64  `json:"sodium" validate:"gte=0"`
		Description   string   `json:"description" validate:"omitempty,max=1000"`
	}

	CustomFoodResponse struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		Name        string    `json:"name"`
		Category    string    `json:"category"`
		Serving     Serving   `json:"serving"`
		Macros      Macros    `json:"macros"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}
)

func (r CustomFoodResponse) Record() FoodRecord {
	return FoodRecord{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Serving:     r.Serving,
		Macros:      r.Macros.Sanitize(),
		Provenance:  ProvenanceUserCustom,
		Description: r.Description,
	}
}
