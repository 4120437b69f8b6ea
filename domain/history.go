package domain

import (
	"errors"
	"time"
)

const MaxHistoryDays = 366

var (
	MessageSuccessGetNutritionHistory = "nutrition history retrieved successfully"
	MessageSuccessGetWeightHistory    = "weight history retrieved successfully"
	MessageSuccessAddWeight           = "weight logged successfully"
	MessageSuccessDeleteWeight        = "weight entry deleted successfully"

	MessageFailedGetNutritionHistory = "failed to retrieve nutrition history"
	MessageFailedGetWeightHistory    = "failed to retrieve weight history"
	MessageFailedAddWeight           = "failed to log weight"
	MessageFailedDeleteWeight        = "failed to delete weight entry"

	ErrWeightNotFound = errors.New("weight entry not found")
	ErrInvalidWeight  = errors.New("weight must be positive")
)

type (
	AddWeightRequest struct {
		WeightKg float64 `json:"weight_kg" validate:"required,gt=0,lt=1000"`
		Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
		Note     string  `json:"note" validate:"omitempty,max=500"`
	}

	WeightResponse struct {
		ID        string    `json:"id"`
		WeightKg  float64   `json:"weight_kg"`
		Date      string    `json:"date"`
		Note      string    `json:"note,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	DailyNutrition struct {
		Date     string  `json:"date"`
		Calories int     `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Entries  int     `json:"entries"`
	}

	NutritionHistoryResponse struct {
		From            string           `json:"from"`
		To              string           `json:"to"`
		Days            []DailyNutrition `json:"days"`
		AverageCalories float64          `json:"average_calories"`
	}
)
