package domain

import (
	"errors"
	"strings"
	"time"
)

type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
	MealSnacks    Meal = "snacks"
)

// Meals is the display order of a diary day.
var Meals = []Meal{MealBreakfast, MealLunch, MealDinner, MealSnacks}

// NormalizeMeal lowercases a stored or submitted meal slot. Anything that is
// not a known slot lands in snacks.
func NormalizeMeal(s string) Meal {
	switch m := Meal(strings.ToLower(strings.TrimSpace(s))); m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return m
	case "snack":
		return MealSnacks
	}
	return MealSnacks
}

type EntryState string

const (
	EntryPending   EntryState = "pending"
	EntryPersisted EntryState = "persisted"
	EntryDeleted   EntryState = "deleted"
)

var (
	MessageSuccessAddFoodEntry    = "food entry added successfully"
	MessageSuccessUpdateFoodEntry = "food entry updated successfully"
	MessageSuccessDeleteFoodEntry = "food entry deleted successfully"
	MessageSuccessGetDiary        = "diary retrieved successfully"
	MessageSuccessGetRecentFoods  = "recent foods retrieved successfully"

	MessageFailedAddFoodEntry    = "failed to add food entry"
	MessageFailedUpdateFoodEntry = "failed to update food entry"
	MessageFailedDeleteFoodEntry = "failed to delete food entry"
	MessageFailedGetDiary        = "failed to retrieve diary"
	MessageFailedGetRecentFoods  = "failed to retrieve recent foods"

	ErrEntryNotFound        = errors.New("food entry not found")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
)

type (
	// FoodRef points at a FoodRecord in one of the sources. Inline values are
	// used when the reference cannot be resolved, e.g. for recent foods.
	FoodRef struct {
		ID       string   `json:"food_id"`
		Source   string   `json:"source"`
		Name     string   `json:"food_name"`
		Calories *float64 `json:"calories"`
		Protein  float64  `json:"protein"`
		Carbs    float64  `json:"carbs"`
		Fat      float64  `json:"fat"`
		Fiber    float64  `json:"fiber"`
		Sugar    float64  `json:"sugar"`
		Sodium   float64  `json:"sodium"`
	}

	AddFoodEntryRequest struct {
		Food     FoodRef `json:"food"`
		Meal     string  `json:"meal"`
		Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
		Quantity float64 `json:"quantity"`
	}

	UpdateFoodEntryRequest struct {
		Quantity *float64 `json:"quantity" validate:"omitempty,gt=0"`
		Meal     *string  `json:"meal" validate:"omitempty,meal"`
		Date     *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	}

	FoodEntryResponse struct {
		ID        string     `json:"id"`
		UserID    string     `json:"userId"`
		FoodID    string     `json:"foodId"`
		Source    string     `json:"source"`
		FoodName  string     `json:"foodName"`
		Calories  int        `json:"calories"`
		Protein   float64    `json:"protein"`
		Carbs     float64    `json:"carbs"`
		Fat       float64    `json:"fat"`
		Fiber     float64    `json:"fiber,omitempty"`
		Sugar     float64    `json:"sugar,omitempty"`
		Sodium    float64    `json:"sodium,omitempty"`
		Meal      Meal       `json:"meal"`
		Date      string     `json:"date"`
		Quantity  float64    `json:"quantity"`
		CreatedAt time.Time  `json:"createdAt"`
		State     EntryState `json:"state"`
	}

	MealGroup struct {
		Meal    Meal                `json:"meal"`
		Entries []FoodEntryResponse `json:"entries"`
		Totals  Macros              `json:"totals"`
	}

	DiaryDay struct {
		Date              string      `json:"date"`
		Meals             []MealGroup `json:"meals"`
		Totals            Macros      `json:"totals"`
		CalorieGoal       *int        `json:"calorie_goal,omitempty"`
		RemainingCalories *int        `json:"remaining_calories,omitempty"`
	}
)

// ParseDate validates a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
