package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is an in-app message for a user. Delivery to devices is a
// separate concern; this is only the record the client polls.
type Notification struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Message     string         `gorm:"size:1000;not null" json:"message"`
	Type        string         `gorm:"size:20;default:'info'" json:"type"`
	IsRead      bool           `gorm:"not null;default:false" json:"is_read"`
	Data        datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
