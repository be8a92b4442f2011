package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roadwatch/roadwatch-backend/internal/config"
	"github.com/roadwatch/roadwatch-backend/internal/dto"
	"github.com/roadwatch/roadwatch-backend/internal/metrics"
	"github.com/roadwatch/roadwatch-backend/internal/models"
	"github.com/roadwatch/roadwatch-backend/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxDescriptionLen = 500

// GeoIndex is the proximity-search collaborator. It is optional; a nil index
// disables geo filtering on listings.
type GeoIndex interface {
	Add(ctx context.Context, id uuid.UUID, longitude, latitude float64) error
	Remove(ctx context.Context, id uuid.UUID) error
	Near(ctx context.Context, longitude, latitude, radiusMeters float64) ([]uuid.UUID, error)
}

// ReportService owns the report lifecycle: creation, the vote transaction,
// deletion, and the retention sweep. All status transitions happen here.
type ReportService struct {
	db         *gorm.DB
	cfg        *config.Config
	thresholds scoring.Thresholds
	rewards    *RewardService
	notifier   *NotificationService
	photos     *StorageService
	geo        GeoIndex
	now        func() time.Time
}

func NewReportService(
	db *gorm.DB,
	cfg *config.Config,
	rewards *RewardService,
	notifier *NotificationService,
	photos *StorageService,
	geo GeoIndex,
) *ReportService {
	return &ReportService{
		db:  db,
		cfg: cfg,
		thresholds: scoring.Thresholds{
			VerifyMinConfirms: cfg.VerifyMinConfirms,
			VerifyMinScore:    cfg.VerifyMinScore,
			RejectMinDenials:  cfg.RejectMinDenials,
			RejectMaxScore:    cfg.RejectMaxScore,
		},
		rewards:  rewards,
		notifier: notifier,
		photos:   photos,
		geo:      geo,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// CreateReport validates and persists a new pending report, indexes its
// position, and rewards the author.
func (s *ReportService) CreateReport(authorID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: category must be one of %s",
			ErrValidation, strings.Join(models.Categories, ", "))
	}
	if req.Severity < 1 || req.Severity > 3 {
		return nil, fmt.Errorf("%w: severity must be 1, 2, or 3", ErrValidation)
	}
	if len(req.Location) != 2 {
		return nil, fmt.Errorf("%w: location must be [longitude, latitude]", ErrValidation)
	}
	lng, lat := req.Location[0], req.Location[1]
	if !isFinite(lng) || !isFinite(lat) || lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: location coordinates out of range", ErrValidation)
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if len(desc) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description must be at most %d characters",
			ErrValidation, maxDescriptionLen)
	}

	photoURLs := []string{}
	if s.photos != nil && len(req.Photos) > 0 {
		photoURLs = s.photos.StorePhotos(req.Photos, s.cfg.MaxReportPhotos)
	}
	photosJSON, err := json.Marshal(photoURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode photo urls: %w", err)
	}

	createdAt := s.now()
	report := models.Report{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Category:    req.Category,
		Longitude:   lng,
		Latitude:    lat,
		Description: desc,
		Severity:    req.Severity,
		Photos:      datatypes.JSON(photosJSON),
		Status:      models.StatusPending,
		ExpiresAt:   createdAt.Add(s.cfg.RetentionWindow()),
		CreatedAt:   createdAt,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if s.geo != nil {
		if err := s.geo.Add(context.Background(), report.ID, lng, lat); err != nil {
			slog.Error("geo index add failed", "report_id", report.ID.String(), "error", err)
		}
	}

	s.rewards.ReportCreated(authorID)
	metrics.ReportsCreated.Inc()

	return &report, nil
}

// ApplyVote ledgers one vote and runs the transition rule. The vote insert,
// tally increment, and status evaluation commit together: the composite
// unique index on votes rejects the duplicate in a concurrent pair, and the
// conditional tally UPDATE takes the report's row lock, so each verdict
// evaluation sees every previously committed vote.
func (s *ReportService) ApplyVote(reportID, voterID uuid.UUID, action models.VoteAction) (*models.Report, error) {
	if action != models.VoteConfirm && action != models.VoteDeny {
		return nil, fmt.Errorf("%w: unknown vote action %q", ErrValidation, action)
	}

	var report models.Report
	var becameTerminal bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to load report: %w", err)
		}

		// Self-vote is refused regardless of report status.
		if report.AuthorID == voterID {
			return ErrSelfVote
		}
		if report.Status != models.StatusPending {
			return ErrReportClosed
		}

		vote := models.Vote{
			ID:       uuid.New(),
			ReportID: reportID,
			VoterID:  voterID,
			Action:   action,
		}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return fmt.Errorf("failed to record vote: %w", err)
		}

		column := "confirmations"
		if action == models.VoteDeny {
			column = "denials"
		}

		// Conditional increment: zero rows means the report left pending
		// between our read and the lock, so the vote must not count.
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.StatusPending).
			Update(column, gorm.Expr(column+" + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to increment tally: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrReportClosed
		}

		// Re-read under the row lock: tallies now include every committed
		// vote plus ours.
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			return fmt.Errorf("failed to reload report: %w", err)
		}

		report.CredibilityScore = scoring.Score(report.Confirmations, report.Denials)
		report.Status = s.thresholds.Verdict(report.Confirmations, report.Denials)
		becameTerminal = report.Status != models.StatusPending

		if err := tx.Model(&models.Report{}).
			Where("id = ?", reportID).
			Updates(map[string]interface{}{
				"credibility_score": report.CredibilityScore,
				"status":            report.Status,
			}).Error; err != nil {
			return fmt.Errorf("failed to persist transition: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VotesCast.WithLabelValues(string(action)).Inc()
	s.rewards.VoteCast(voterID, action)

	// The report stays in the geo index after a verdict: verified hazards
	// must remain findable by proximity, and the status filter narrows
	// listings. Eviction happens on delete and expiry only.
	if becameTerminal {
		metrics.VerdictsReached.WithLabelValues(string(report.Status)).Inc()
		if s.notifier != nil {
			s.notifier.VerdictReached(&report)
		}
	}

	return &report, nil
}

// GetReport loads a single report.
func (s *ReportService) GetReport(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListFilter narrows a report listing.
type ListFilter struct {
	Longitude    float64
	Latitude     float64
	RadiusMeters float64
	Geo          bool // when true, filter by proximity
	Status       string
	Category     string
	Limit        int
	Page         int
}

// ListReports returns reports newest first, optionally narrowed by proximity
// through the geo index and by status/category.
func (s *ReportService) ListReports(filter ListFilter) ([]models.Report, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	query := s.db.Model(&models.Report{})

	if filter.Geo && s.geo != nil {
		ids, err := s.geo.Near(context.Background(),
			filter.Longitude, filter.Latitude, filter.RadiusMeters)
		if err != nil {
			return nil, 0, fmt.Errorf("proximity search failed: %w", err)
		}
		if len(ids) == 0 {
			return []models.Report{}, 0, nil
		}
		query = query.Where("id IN ?", ids)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// DeleteReport removes a report and its votes. Only the author or an admin
// may delete.
func (s *ReportService) DeleteReport(reportID, requesterID uuid.UUID, requesterRole string) error {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	if report.AuthorID != requesterID && requesterRole != models.RoleAdmin {
		return ErrNotReportOwner
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&report).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if s.geo != nil {
		if err := s.geo.Remove(context.Background(), reportID); err != nil {
			slog.Error("geo index remove failed", "report_id", reportID.String(), "error", err)
		}
	}
	return nil
}

// ExpireDue transitions pending reports past their expiry to expired and
// evicts them from the geo index. The update is conditional on status, so
// terminal reports are untouched and repeated sweeps are idempotent.
func (s *ReportService) ExpireDue() (int64, error) {
	var dueIDs []uuid.UUID
	if err := s.db.Model(&models.Report{}).
		Where("status = ? AND expires_at <= ?", models.StatusPending, s.now()).
		Pluck("id", &dueIDs).Error; err != nil {
		return 0, err
	}
	if len(dueIDs) == 0 {
		return 0, nil
	}

	result := s.db.Model(&models.Report{}).
		Where("id IN ? AND status = ?", dueIDs, models.StatusPending).
		Update("status", models.StatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		metrics.ReportsExpired.Add(float64(result.RowsAffected))
	}

	if s.geo != nil {
		for _, id := range dueIDs {
			if err := s.geo.Remove(context.Background(), id); err != nil {
				slog.Error("geo index remove failed", "report_id", id.String(), "error", err)
			}
		}
	}
	return result.RowsAffected, nil
}

// StartExpirySweep runs ExpireDue on a ticker until done is closed.
func (s *ReportService) StartExpirySweep(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(s.cfg.ExpirySweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				expired, err := s.ExpireDue()
				if err != nil {
					slog.Error("expiry sweep failed", "error", err)
				} else if expired > 0 {
					slog.Info("expiry sweep completed", "expired", expired)
				}
			case <-done:
				return
			}
		}
	}()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
