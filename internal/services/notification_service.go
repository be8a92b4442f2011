package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/roadwatch/roadwatch-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService writes in-app notification records. Device delivery is
// out of scope; clients poll their list.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// VerdictReached notifies a report's author that the crowd settled on a
// verdict. Best-effort: failures are logged, the vote that triggered the
// verdict already succeeded.
func (s *NotificationService) VerdictReached(report *models.Report) {
	var title, message, kind string
	switch report.Status {
	case models.StatusVerified:
		title = "Report verified"
		message = fmt.Sprintf("Your %s report was confirmed by the community.", report.Category)
		kind = "success"
	case models.StatusRejected:
		title = "Report rejected"
		message = fmt.Sprintf("Your %s report was denied by the community.", report.Category)
		kind = "warning"
	default:
		return
	}

	data, _ := json.Marshal(map[string]string{
		"report_id": report.ID.String(),
		"status":    string(report.Status),
	})

	n := models.Notification{
		ID:          uuid.New(),
		RecipientID: report.AuthorID,
		Title:       title,
		Message:     message,
		Type:        kind,
		Data:        datatypes.JSON(data),
	}
	if err := s.db.Create(&n).Error; err != nil {
		slog.Error("failed to create verdict notification",
			"report_id", report.ID.String(), "error", err)
	}
}

// ListForUser returns a user's notifications newest first plus the unread
// count.
func (s *NotificationService) ListForUser(userID uuid.UUID, limit int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var notifications []models.Notification
	if err := s.db.Where("recipient_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
