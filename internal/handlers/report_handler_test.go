package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/roadwatch/roadwatch-backend/internal/config"
	"github.com/roadwatch/roadwatch-backend/internal/database"
	"github.com/roadwatch/roadwatch-backend/internal/dto"
	"github.com/roadwatch/roadwatch-backend/internal/handlers"
	"github.com/roadwatch/roadwatch-backend/internal/models"
	"github.com/roadwatch/roadwatch-backend/internal/routes"
	"github.com/roadwatch/roadwatch-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTAccessExpiry:    15 * time.Minute,
		JWTRefreshExpiry:   168 * time.Hour,
		VerifyMinConfirms:  3,
		VerifyMinScore:     70,
		RejectMinDenials:   5,
		RejectMaxScore:     30,
		ReportCreateReward: 1,
		ConfirmVoteReward:  0.5,
		RetentionDays:      7,
		MaxReportPhotos:    3,
		UploadDir:          t.TempDir(),
	}

	authService := services.NewAuthService(db, cfg)
	rewardService := services.NewRewardService(db, cfg)
	notificationService := services.NewNotificationService(db)
	reportService := services.NewReportService(db, cfg, rewardService, notificationService, nil, nil)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewReportHandler(reportService),
		handlers.NewNotificationHandler(notificationService),
		handlers.NewHealthHandler(db),
		handlers.NewConfigHandler(cfg),
	)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

// registerUser creates an account over the API and returns its access token
// and user ID.
func registerUser(t *testing.T, app *fiber.App, email string) (string, uuid.UUID) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Password: "long-enough-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth dto.AuthResponse
	decodeJSON(t, resp, &auth)
	return auth.AccessToken, auth.User.ID
}

func createReportViaAPI(t *testing.T, app *fiber.App, token string) models.Report {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/reports", token, dto.CreateReportRequest{
		Category:    "pothole",
		Location:    []float64{28.9784, 41.0082},
		Description: "Deep pothole in the right lane",
		Severity:    2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var report models.Report
	decodeJSON(t, resp, &report)
	return report
}

func TestReportEndpoints_CreateAndGet(t *testing.T) {
	app, _ := newTestApp(t)
	token, userID := registerUser(t, app, "author@example.com")

	report := createReportViaAPI(t, app, token)
	assert.Equal(t, userID, report.AuthorID)
	assert.Equal(t, models.StatusPending, report.Status)

	// Reads are public.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/reports/"+report.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/reports/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/reports/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Mutations are not.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/reports", "", dto.CreateReportRequest{
		Category:    "pothole",
		Location:    []float64{28.9784, 41.0082},
		Description: "anonymous",
		Severity:    1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/reports", token, dto.CreateReportRequest{
		Category:    "meteor",
		Location:    []float64{28.9784, 41.0082},
		Description: "unknown category",
		Severity:    1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportEndpoints_VoteFlow(t *testing.T) {
	app, _ := newTestApp(t)
	authorToken, _ := registerUser(t, app, "author@example.com")
	report := createReportViaAPI(t, app, authorToken)
	votePath := "/api/v1/reports/" + report.ID.String()

	// Author cannot vote on their own report.
	resp := doJSON(t, app, http.MethodPost, votePath+"/confirm", authorToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	voterToken, _ := registerUser(t, app, "voter1@example.com")
	resp = doJSON(t, app, http.MethodPost, votePath+"/confirm", voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Report
	decodeJSON(t, resp, &updated)
	assert.Equal(t, 1, updated.Confirmations)
	assert.Equal(t, 100, updated.CredibilityScore)
	assert.Equal(t, models.StatusPending, updated.Status)

	// Second vote by the same user, regardless of direction.
	resp = doJSON(t, app, http.MethodPost, votePath+"/deny", voterToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Two more confirmations reach the verification threshold.
	for _, email := range []string{"voter2@example.com", "voter3@example.com"} {
		token, _ := registerUser(t, app, email)
		resp = doJSON(t, app, http.MethodPost, votePath+"/confirm", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	decodeJSON(t, resp, &updated)
	assert.Equal(t, models.StatusVerified, updated.Status)

	// Verified reports refuse further votes.
	lateToken, _ := registerUser(t, app, "late@example.com")
	resp = doJSON(t, app, http.MethodPost, votePath+"/deny", lateToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/reports/"+uuid.NewString()+"/confirm", lateToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportEndpoints_Delete(t *testing.T) {
	app, _ := newTestApp(t)
	authorToken, _ := registerUser(t, app, "author@example.com")
	strangerToken, _ := registerUser(t, app, "stranger@example.com")
	report := createReportViaAPI(t, app, authorToken)
	path := "/api/v1/reports/" + report.ID.String()

	resp := doJSON(t, app, http.MethodDelete, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, path, authorToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportEndpoints_BannedUser(t *testing.T) {
	app, db := newTestApp(t)
	token, userID := registerUser(t, app, "banned@example.com")

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"banned": true, "banned_reason": "abuse"}).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/reports", token, dto.CreateReportRequest{
		Category:    "flood",
		Location:    []float64{28.9784, 41.0082},
		Description: "should be refused",
		Severity:    3,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListAndFilterEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "author@example.com")

	createReportViaAPI(t, app, token)
	resp := doJSON(t, app, http.MethodPost, "/api/v1/reports", token, dto.CreateReportRequest{
		Category:    "accident",
		Location:    []float64{29.0, 41.0},
		Description: "Two-car collision",
		Severity:    3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var listing struct {
		Reports []models.Report `json:"reports"`
		Total   int64           `json:"total"`
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/reports", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &listing)
	assert.Equal(t, int64(2), listing.Total)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/reports?category=accident", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &listing)
	require.Len(t, listing.Reports, 1)
	assert.Equal(t, "accident", listing.Reports[0].Category)
}

func TestHealthAndConfigEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/config", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var clientCfg dto.ClientConfigResponse
	decodeJSON(t, resp, &clientCfg)
	assert.Equal(t, models.Categories, clientCfg.Categories)
	assert.Equal(t, 3, clientCfg.VerifyMinConfirms)
	assert.Equal(t, 7, clientCfg.RetentionDays)
}
