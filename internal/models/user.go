package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. Reputation starts at 50 and is adjusted by the
// participation reward policy; it is not clamped here.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"size:20;default:'user'" json:"role"`
	Reputation   float64        `gorm:"not null;default:50" json:"reputation"`
	Banned       bool           `gorm:"not null;default:false" json:"banned"`
	BannedReason string         `gorm:"size:500" json:"banned_reason,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
