package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SharedFood is a community contributed food. UsageCount and Likes are only
// ever changed with in-place SQL increments.
type SharedFood struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ItemName      string         `gorm:"not null;index" json:"itemName"`
	Category      string         `json:"category"`
	Weight        string         `json:"weight"`
	Calories      float64        `json:"calories"`
	Protein       float64        `json:"protein"`
	Fat           float64        `json:"fat"`
	Carbs         float64        `json:"carbs"`
	Fiber         float64        `json:"fiber"`
	Sugar         float64        `json:"sugar"`
	Sodium        float64        `json:"sodium"`
	Description   string         `gorm:"type:text" json:"description"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	CreatedBy     string         `gorm:"index" json:"createdBy"`
	CreatedByName string         `json:"createdByName"`
	UsageCount    int            `gorm:"not null;default:0" json:"usageCount"`
	Likes         int            `gorm:"not null;default:0" json:"likes"`
	Extra         map[string]any `gorm:"type:text;serializer:json" json:"extra,omitempty"`

	Timestamp
}

func (f *SharedFood) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
