package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Crowd verification thresholds. A pending report becomes verified at
	// VerifyMinConfirms confirmations with a score of at least VerifyMinScore,
	// and rejected at RejectMinDenials denials with a score below
	// RejectMaxScore.
	VerifyMinConfirms int
	VerifyMinScore    int
	RejectMinDenials  int
	RejectMaxScore    int

	// Participation rewards
	ReportCreateReward float64
	ConfirmVoteReward  float64

	// Report retention
	RetentionDays       int
	ExpirySweepInterval time.Duration

	// Geo index (optional; empty disables proximity search)
	RedisAddr     string
	RedisPassword string

	// Photo uploads
	UploadDir       string
	MaxReportPhotos int

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Missing .env is fine; real deployments use process env.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "roadwatch"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		VerifyMinConfirms: parseInt(getEnv("VERIFY_MIN_CONFIRMS", "3")),
		VerifyMinScore:    parseInt(getEnv("VERIFY_MIN_SCORE", "70")),
		RejectMinDenials:  parseInt(getEnv("REJECT_MIN_DENIALS", "5")),
		RejectMaxScore:    parseInt(getEnv("REJECT_MAX_SCORE", "30")),

		ReportCreateReward: parseFloat(getEnv("REPORT_CREATE_REWARD", "1")),
		ConfirmVoteReward:  parseFloat(getEnv("CONFIRM_VOTE_REWARD", "0.5")),

		RetentionDays:       parseInt(getEnv("REPORT_RETENTION_DAYS", "7")),
		ExpirySweepInterval: parseDuration(getEnv("EXPIRY_SWEEP_INTERVAL", "10m")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		MaxReportPhotos: parseInt(getEnv("MAX_REPORT_PHOTOS", "3")),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// RetentionWindow is how long a pending report stays open before the sweep
// expires it.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
