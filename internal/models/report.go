package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusVerified ReportStatus = "verified"
	StatusRejected ReportStatus = "rejected"
	StatusExpired  ReportStatus = "expired"
)

// Terminal reports whether no further transition can leave the status.
func (s ReportStatus) Terminal() bool {
	return s == StatusVerified || s == StatusRejected || s == StatusExpired
}

// Categories is the fixed set of hazard kinds a report may carry.
var Categories = []string{"pothole", "accident", "roadblock", "police", "flood", "construction"}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Report is a geotagged hazard report. Tallies and credibility score live on
// the row and are mutated only inside the vote transaction; coordinates are
// stored longitude first to match the geo index ordering.
type Report struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Category         string         `gorm:"size:50;not null;index" json:"category"`
	Longitude        float64        `gorm:"not null" json:"longitude"`
	Latitude         float64        `gorm:"not null" json:"latitude"`
	Description      string         `gorm:"size:500;not null" json:"description"`
	Severity         int            `gorm:"not null" json:"severity"`
	Photos           datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"photos"`
	Status           ReportStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Confirmations    int            `gorm:"not null;default:0" json:"confirmations"`
	Denials          int            `gorm:"not null;default:0" json:"denials"`
	CredibilityScore int            `gorm:"not null;default:0" json:"credibility_score"`
	ExpiresAt        time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Author           User           `gorm:"foreignKey:AuthorID" json:"-"`
}
