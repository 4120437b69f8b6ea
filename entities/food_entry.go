package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FoodEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string    `gorm:"index:idx_food_entries_user_date;not null" json:"userId"`
	FoodID     string    `json:"foodId"`
	FoodSource string    `json:"source"`
	FoodName   string    `gorm:"not null" json:"foodName"`
	Meal       string    `json:"meal"`
	Date       string    `gorm:"type:varchar(10);index:idx_food_entries_user_date" json:"date"`
	Quantity   float64   `json:"quantity"`

	// Scaled totals.
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`

	// Per-serving snapshot taken when the entry was written.
	BaseCalories float64 `json:"-"`
	BaseProtein  float64 `json:"-"`
	BaseCarbs    float64 `json:"-"`
	BaseFat      float64 `json:"-"`
	BaseFiber    float64 `json:"-"`
	BaseSugar    float64 `json:"-"`
	BaseSodium   float64 `json:"-"`

	Timestamp
}

func (e *FoodEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
