package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;autoUpdateTime" json:"updated_at"`
}

// ensureID fills a missing primary key. IDs are generated here rather than
// by the database so a queued write can hand its ID back before it lands.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
