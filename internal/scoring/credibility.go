// Package scoring holds the crowd-verification arithmetic: the credibility
// score derived from vote tallies and the threshold rules that decide when a
// pending report is verified or rejected. Everything here is pure so the
// transition logic can be tested without a database.
package scoring

import (
	"math"

	"github.com/roadwatch/roadwatch-backend/internal/models"
)

// Score maps vote tallies to a 0-100 credibility score: the share of
// confirmations among all votes, rounded to the nearest integer. No votes
// means no signal, which scores 0.
func Score(confirmations, denials int) int {
	total := confirmations + denials
	if total == 0 {
		return 0
	}
	ratio := float64(confirmations) / float64(total)
	return int(math.Round(ratio * 100))
}

// Thresholds are the tunable transition rules.
type Thresholds struct {
	VerifyMinConfirms int
	VerifyMinScore    int
	RejectMinDenials  int
	RejectMaxScore    int
}

// Verdict evaluates the transition rule for a pending report against the
// given tallies. It returns StatusVerified, StatusRejected, or StatusPending;
// terminal-state handling belongs to the caller.
func (t Thresholds) Verdict(confirmations, denials int) models.ReportStatus {
	score := Score(confirmations, denials)
	if confirmations >= t.VerifyMinConfirms && score >= t.VerifyMinScore {
		return models.StatusVerified
	}
	if denials >= t.RejectMinDenials && score < t.RejectMaxScore {
		return models.StatusRejected
	}
	return models.StatusPending
}
