package config

import (
	"os"
	"strconv"
	"time"

	"PhotoAnalyzer/internal/api/photo"
	"PhotoAnalyzer/pkg/rekognition"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port          string
	Photo         photo.Config
	ReportTimeout time.Duration
	JWTSecret     string
	RateLimit     float64
	RateBurst     int
}

// LoadEnv reads .env when present. A missing file is not an error; the
// process environment is used as is.
func LoadEnv(logger *logrus.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}
}

func LoadAppConfig() AppConfig {
	return AppConfig{
		Port: envString("APP_PORT", "3000"),
		Photo: photo.Config{
			Bucket:              envString("PHOTO_BUCKET", photo.DefaultBucket),
			SimilarityThreshold: envPercent("SIMILARITY_THRESHOLD", photo.DefaultSimilarityThreshold),
			MaxLabels:           int64(envInt("MAX_LABELS", int(rekognition.DefaultMaxLabels))),
			HistoryLimit:        envInt("HISTORY_LIMIT", photo.DefaultHistoryLimit),
		},
		ReportTimeout: envDuration("REPORT_TIMEOUT", 60*time.Second),
		JWTSecret:     os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
		RateLimit:     envFloat("RATE_LIMIT_RPS", 50),
		RateBurst:     envInt("RATE_LIMIT_BURST", 100),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// envPercent accepts values in (0, 100], the range the vision service takes
// for a similarity threshold.
func envPercent(key string, def float64) float64 {
	v := envFloat(key, def)
	if v > 100 {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
