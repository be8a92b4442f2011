package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/roadwatch/roadwatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_VerdictReached(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	author := createTestUser(t, db, "author@example.com")

	report := &models.Report{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Category: "flood",
		Status:   models.StatusRejected,
	}
	svc.VerdictReached(report)

	// A still-pending report produces no notification.
	svc.VerdictReached(&models.Report{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Category: "pothole",
		Status:   models.StatusPending,
	})

	notifications, unread, err := svc.ListForUser(author.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, "Report rejected", notifications[0].Title)
	assert.Equal(t, "warning", notifications[0].Type)
}

func TestNotificationService_MarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	author := createTestUser(t, db, "author@example.com")
	other := createTestUser(t, db, "other@example.com")

	svc.VerdictReached(&models.Report{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Category: "accident",
		Status:   models.StatusVerified,
	})

	notifications, unread, err := svc.ListForUser(author.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, int64(1), unread)

	// Another user cannot mark someone else's notification.
	err = svc.MarkRead(other.ID, notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(author.ID, notifications[0].ID))

	_, unread, err = svc.ListForUser(author.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	author := createTestUser(t, db, "author@example.com")

	for i := 0; i < 3; i++ {
		svc.VerdictReached(&models.Report{
			ID:       uuid.New(),
			AuthorID: author.ID,
			Category: "police",
			Status:   models.StatusVerified,
		})
	}

	require.NoError(t, svc.MarkAllRead(author.ID))

	notifications, unread, err := svc.ListForUser(author.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.Zero(t, unread)
}
