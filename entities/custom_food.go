package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomFood struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string    `gorm:"index;not null" json:"user_id"`
	Name          string    `gorm:"not null" json:"name"`
	Category      string    `json:"category"`
	ServingAmount float64   `json:"serving_amount"`
	ServingUnit   string    `json:"serving_unit"`
	Calories      float64   `json:"calories"`
	Protein       float64   `json:"protein"`
	Carbs         float64   `json:"carbs"`
	Fat           float64   `json:"fat"`
	Fiber         float64   `json:"fiber"`
	Sugar         float64   `json:"sugar"`
	Sodium        float64   `json:"sodium"`
	Description   string    `gorm:"type:text" json:"description"`

	Timestamp
}

func (f *CustomFood) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
