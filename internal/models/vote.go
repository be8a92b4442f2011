package models

import (
	"time"

	"github.com/google/uuid"
)

type VoteAction string

const (
	VoteConfirm VoteAction = "confirm"
	VoteDeny    VoteAction = "deny"
)

// Vote is the ledger entry for one voter's verdict on one report. The
// composite unique index is what makes the one-vote-per-user rule hold under
// concurrent requests; votes are never updated or deleted.
type Vote struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_report_voter" json:"report_id"`
	VoterID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_report_voter" json:"voter_id"`
	Action    VoteAction `gorm:"size:10;not null" json:"action"`
	CreatedAt time.Time  `json:"created_at"`
}
