package app

import (
	"strings"
	"time"

	"github.com/starsignlabs/zodiac-backend/internal/platform/envutil"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string

	RedisAddr       string
	RateLimit       int
	RateLimitWindow time.Duration

	SeedFile string

	Survey services.SurveyConfig
}

func LoadConfig() Config {
	survey := services.DefaultSurveyConfig()
	survey.TotalQuestions = envutil.Int("TOTAL_QUESTIONS", survey.TotalQuestions)
	survey.SessionExpiry = time.Duration(envutil.Int("SESSION_EXPIRY_HOURS", 24)) * time.Hour
	survey.MaxBulkOperations = envutil.Int("MAX_BULK_OPERATIONS", survey.MaxBulkOperations)
	survey.DefaultPageSize = envutil.Int("DEFAULT_PAGE_SIZE", survey.DefaultPageSize)
	survey.MaxPageSize = envutil.Int("MAX_PAGE_SIZE", survey.MaxPageSize)
	survey.CleanupInterval = time.Duration(envutil.Int("SESSION_CLEANUP_INTERVAL_MINUTES", 60)) * time.Minute
	survey.QueryTimeout = envutil.DurationMS("QUERY_TIMEOUT_MS", survey.QueryTimeout)

	var origins []string
	if raw := envutil.String("ALLOWED_ORIGINS", ""); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		Port:            envutil.String("PORT", "8080"),
		Environment:     envutil.String("APP_ENV", "development"),
		AllowedOrigins:  origins,
		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		RateLimit:       envutil.Int("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitWindow: time.Minute,
		SeedFile:        envutil.String("SEED_FILE", ""),
		Survey:          survey,
	}
}
