package module

import (
	"time"

	"screenrate/internal/platform/config"
)

// Options holds configuration settings for the scripts module
type Options struct {
	MaxUploadMB int
	AllowedExts []string

	QueueName string

	MLBaseURL    string
	MLTimeout    time.Duration
	MLMaxRetries int
	MLRetryBase  time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	api := cfg.Prefix("CORE_API_")
	mlc := cfg.Prefix("ML_CLIENT_")
	rds := cfg.Prefix("SERVICE_REDIS_")
	return Options{
		MaxUploadMB: api.MayInt("MAX_UPLOAD_MB", 10),
		AllowedExts: api.MayCSV("ALLOWED_EXTENSIONS", []string{".txt", ".fountain", ".md"}),

		QueueName: rds.MayString("QUEUE_NAME", "rating"),

		MLBaseURL:    mlc.MayString("URL", "http://localhost:8001"),
		MLTimeout:    mlc.MayDuration("TIMEOUT", 300*time.Second),
		MLMaxRetries: mlc.MayInt("MAX_RETRIES", 3),
		MLRetryBase:  mlc.MayDuration("RETRY_DELAY", time.Second),
	}
}
