package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries all environment-driven settings. It is constructed once in
// main and passed by reference so gateways and services stay injectable.
type Config struct {
	Addr        string
	DatabaseURL string

	// Redis backs the initiate rate limiter when configured.
	Redis RedisConfig

	// Object storage buckets for raw videos and rendered certificates.
	AWSRegion     string
	VideosBucket  string
	ReportsBucket string

	// Analysis gateway.
	GeminiAPIKey         string
	GeminiModel          string
	AnalysisPollInterval time.Duration
	AnalysisTimeout      time.Duration

	// Geofence target for the reference deployment.
	TargetLat      float64
	TargetLong     float64
	MaxDistanceM   float64
	MaxUploadBytes int64

	// Optional bearer auth. Empty key disables auth entirely.
	JWTSigningKey string

	// Initiate rate limit: attempts per case within the window.
	InitiateRateLimit  int
	InitiateRateWindow time.Duration
}

// RedisConfig holds connection settings for the rate-limit backend.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() *Config {
	return &Config{
		Addr:        envString("VERIFAI_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		AWSRegion:            envString("AWS_REGION", "ap-south-1"),
		VideosBucket:         envString("VIDEOS_BUCKET", "verifai-videos"),
		ReportsBucket:        envString("REPORTS_BUCKET", "verifai-reports"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          envString("GEMINI_MODEL", "gemini-2.5-flash"),
		AnalysisPollInterval: envDuration("ANALYSIS_POLL_INTERVAL", 2*time.Second),
		AnalysisTimeout:      envDuration("ANALYSIS_TIMEOUT", 2*time.Minute),
		TargetLat:            envFloat("TARGET_LAT", 19.073892),
		TargetLong:           envFloat("TARGET_LONG", 72.845470),
		MaxDistanceM:         envFloat("MAX_DISTANCE_METERS", 500),
		MaxUploadBytes:       envInt64("MAX_UPLOAD_BYTES", 256<<20),
		JWTSigningKey:        os.Getenv("JWT_SIGNING_KEY"),
		InitiateRateLimit:    int(envInt64("INITIATE_RATE_LIMIT", 5)),
		InitiateRateWindow:   envDuration("INITIATE_RATE_WINDOW", time.Minute),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
