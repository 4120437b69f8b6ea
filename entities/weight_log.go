package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeightLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   string    `gorm:"index:idx_weight_logs_user_date;not null" json:"user_id"`
	WeightKg float64   `json:"weight_kg"`
	Date     string    `gorm:"type:varchar(10);index:idx_weight_logs_user_date" json:"date"`
	Note     string    `json:"note"`

	Timestamp
}

func (w *WeightLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}
