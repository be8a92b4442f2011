package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roadwatch/roadwatch-backend/internal/config"
	"github.com/roadwatch/roadwatch-backend/internal/database"
	"github.com/roadwatch/roadwatch-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database. A single connection
// keeps every session on the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		VerifyMinConfirms:  3,
		VerifyMinScore:     70,
		RejectMinDenials:   5,
		RejectMaxScore:     30,
		ReportCreateReward: 1,
		ConfirmVoteReward:  0.5,
		RetentionDays:      7,
		MaxReportPhotos:    3,
		JWTSecret:          "test-secret",
		JWTAccessExpiry:    15 * time.Minute,
		JWTRefreshExpiry:   168 * time.Hour,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		ID:         uuid.New(),
		Email:      email,
		Password:   "not-a-real-hash",
		Role:       models.RoleUser,
		Reputation: 50,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newTestReportService(t *testing.T, db *gorm.DB, cfg *config.Config) *ReportService {
	t.Helper()

	rewards := NewRewardService(db, cfg)
	notifier := NewNotificationService(db)
	return NewReportService(db, cfg, rewards, notifier, nil, nil)
}

// fakeGeoIndex is an in-memory GeoIndex with planar distance math, close
// enough for test coordinates.
type fakeGeoIndex struct {
	mu      sync.Mutex
	entries map[uuid.UUID][2]float64 // longitude, latitude
}

func newFakeGeoIndex() *fakeGeoIndex {
	return &fakeGeoIndex{entries: make(map[uuid.UUID][2]float64)}
}

func (f *fakeGeoIndex) Add(_ context.Context, id uuid.UUID, longitude, latitude float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[id] = [2]float64{longitude, latitude}
	return nil
}

func (f *fakeGeoIndex) Remove(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}

func (f *fakeGeoIndex) Near(_ context.Context, longitude, latitude, radiusMeters float64) ([]uuid.UUID, error) {
	const metersPerDegree = 111320.0

	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []uuid.UUID
	for id, pos := range f.entries {
		dx := (pos[0] - longitude) * metersPerDegree * math.Cos(latitude*math.Pi/180)
		dy := (pos[1] - latitude) * metersPerDegree
		if math.Hypot(dx, dy) <= radiusMeters {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeGeoIndex) has(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[id]
	return ok
}

func userReputation(t *testing.T, db *gorm.DB, id uuid.UUID) float64 {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user.Reputation
}
