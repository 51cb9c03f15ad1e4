package services

import "time"

// SurveyConfig carries the survey-wide tunables shared by the session,
// response, and zodiac services.
type SurveyConfig struct {
	TotalQuestions    int
	SessionExpiry     time.Duration
	SessionIDPrefix   string
	DefaultPageSize   int
	MaxPageSize       int
	MaxBulkOperations int
	CleanupInterval   time.Duration
	QueryTimeout      time.Duration
}

func DefaultSurveyConfig() SurveyConfig {
	return SurveyConfig{
		TotalQuestions:    16,
		SessionExpiry:     24 * time.Hour,
		SessionIDPrefix:   "session",
		DefaultPageSize:   50,
		MaxPageSize:       100,
		MaxBulkOperations: 100,
		CleanupInterval:   time.Hour,
		QueryTimeout:      30 * time.Second,
	}
}
