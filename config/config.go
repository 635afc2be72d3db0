package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string

	// DatabaseURL selects the networked PostgreSQL backend when set; otherwise
	// the embedded SQLite file at SQLitePath is used.
	DatabaseURL string
	SQLitePath  string

	RabbitURL string

	S3Bucket         string
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string
	CloudFrontDomain string
	MaxUploadBytes   int64

	AdminSecret    string
	CORSOrigins    []string
	RateLimitRPS   float64
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"PORT":             "5000",
	"SQLITE_PATH":      "dev.sqlite",
	"AWS_REGION":       "ap-south-1",
	"MAX_UPLOAD_BYTES": 5 << 20,
	"CORS_ORIGINS":     "http://localhost:5173,https://groovityclub.com,https://www.groovityclub.com",
	"RATE_LIMIT_RPS":   20,
	"REQUEST_TIMEOUT":  "15s",
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "json",
}

var keys = []string{
	"PORT", "DATABASE_URL", "SQLITE_PATH", "RABBIT_URL",
	"S3_BUCKET", "AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "CLOUDFRONT_DOMAIN",
	"MAX_UPLOAD_BYTES", "ADMIN_SECRET", "CORS_ORIGINS", "RATE_LIMIT_RPS", "REQUEST_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT",
}

// Load reads .env files (when present) into the process environment and then
// resolves configuration from the environment. Variables already set in the
// environment win over .env entries.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	return &Config{
		ServerPort:       v.GetString("PORT"),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		RabbitURL:        strings.TrimSpace(v.GetString("RABBIT_URL")),
		S3Bucket:         strings.TrimSpace(v.GetString("S3_BUCKET")),
		AWSRegion:        v.GetString("AWS_REGION"),
		AWSAccessKeyID:   v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:     v.GetString("AWS_SECRET_ACCESS_KEY"),
		CloudFrontDomain: strings.TrimSpace(v.GetString("CLOUDFRONT_DOMAIN")),
		MaxUploadBytes:   v.GetInt64("MAX_UPLOAD_BYTES"),
		AdminSecret:      v.GetString("ADMIN_SECRET"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		RateLimitRPS:     v.GetFloat64("RATE_LIMIT_RPS"),
		RequestTimeout:   v.GetDuration("REQUEST_TIMEOUT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
