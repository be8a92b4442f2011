package services

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/roadwatch/roadwatch-backend/internal/config"
	"github.com/roadwatch/roadwatch-backend/internal/models"
	"gorm.io/gorm"
)

// RewardService adjusts user reputation in response to report and vote
// activity. Adjustments are best-effort: a failed update is logged and never
// propagated, so it cannot turn a successful vote or report into a failure.
// Each adjustment is a single atomic increment with no cross-user contention.
type RewardService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewRewardService(db *gorm.DB, cfg *config.Config) *RewardService {
	return &RewardService{db: db, cfg: cfg}
}

// ReportCreated rewards an author for filing a report.
func (s *RewardService) ReportCreated(authorID uuid.UUID) {
	s.adjust(authorID, s.cfg.ReportCreateReward, "report_created")
}

// VoteCast rewards a voter for participating. Only confirmations earn
// reputation; denials do not.
func (s *RewardService) VoteCast(voterID uuid.UUID, action models.VoteAction) {
	if action != models.VoteConfirm {
		return
	}
	s.adjust(voterID, s.cfg.ConfirmVoteReward, "vote_confirmed")
}

func (s *RewardService) adjust(userID uuid.UUID, delta float64, reason string) {
	if delta == 0 {
		return
	}
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("reputation", gorm.Expr("reputation + ?", delta))
	if result.Error != nil {
		slog.Error("reputation adjustment failed",
			"user_id", userID.String(), "reason", reason, "error", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		slog.Warn("reputation adjustment skipped, user missing",
			"user_id", userID.String(), "reason", reason)
	}
}
