package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/starsignlabs/zodiac-backend/internal/http/handlers"
	httpMW "github.com/starsignlabs/zodiac-backend/internal/http/middleware"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	Redis           *redis.Client
	RateLimit       int
	RateLimitWindow time.Duration
	QueryTimeout    time.Duration

	SessionHandler  *httpH.SessionHandler
	ResponseHandler *httpH.ResponseHandler
	ZodiacHandler   *httpH.ZodiacHandler
	CategoryHandler *httpH.CategoryHandler
	QuestionHandler *httpH.QuestionHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.QueryTimeout(cfg.QueryTimeout))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.Redis != nil {
		api.Use(httpMW.RateLimit(cfg.Redis, cfg.Log, cfg.RateLimit, cfg.RateLimitWindow))
	}
	{
		// Sessions
		if cfg.SessionHandler != nil {
			api.POST("/sessions", cfg.SessionHandler.Create)
			api.GET("/sessions", cfg.SessionHandler.List)
			api.POST("/sessions/cleanup/expired", cfg.SessionHandler.CleanupExpired)
			api.GET("/sessions/:id", cfg.SessionHandler.Get)
			api.GET("/sessions/:id/details", cfg.SessionHandler.GetDetails)
			api.PATCH("/sessions/:id/progress", cfg.SessionHandler.PatchProgress)
			api.GET("/sessions/:id/stats", cfg.SessionHandler.Stats)
			api.GET("/sessions/:id/validate", cfg.SessionHandler.Validate)
			api.DELETE("/sessions/:id", cfg.SessionHandler.Delete)
		}

		// Responses
		if cfg.ResponseHandler != nil {
			api.GET("/sessions/:id/progress", cfg.ResponseHandler.SessionProgress)
			api.POST("/responses", cfg.ResponseHandler.Create)
			api.POST("/responses/validate", cfg.ResponseHandler.Validate)
			api.POST("/responses/bulk", cfg.ResponseHandler.BulkCreate)
			api.GET("/responses/session/:sid", cfg.ResponseHandler.GetBySession)
			api.GET("/responses/session/:sid/stats", cfg.ResponseHandler.SessionStats)
			api.GET("/responses/session/:sid/progress", cfg.ResponseHandler.CompletionProgress)
			api.GET("/responses/session/:sid/question/:qid", cfg.ResponseHandler.GetBySessionAndQuestion)
			api.PATCH("/responses/:id", cfg.ResponseHandler.Update)
			api.DELETE("/responses/:id", cfg.ResponseHandler.Delete)
			api.DELETE("/responses/session/:sid", cfg.ResponseHandler.DeleteBySession)
		}

		// Zodiac
		if cfg.ZodiacHandler != nil {
			api.GET("/responses/session/:sid/zodiac-scores", cfg.ZodiacHandler.Calculate)
			api.GET("/zodiac/scoring/stats", cfg.ZodiacHandler.Stats)
			api.POST("/zodiac/scoring", cfg.ZodiacHandler.CreateScoring)
			api.POST("/zodiac/scoring/bulk", cfg.ZodiacHandler.CreateScoringBatch)
			api.GET("/zodiac/scoring/option/:id", cfg.ZodiacHandler.GetScoringByOption)
			api.GET("/zodiac/scoring/sign/:sign", cfg.ZodiacHandler.GetScoringBySign)
			api.PATCH("/zodiac/scoring/:id", cfg.ZodiacHandler.UpdateScoring)
			api.DELETE("/zodiac/scoring/:id", cfg.ZodiacHandler.DeleteScoring)
		}

		// Categories
		if cfg.CategoryHandler != nil {
			api.GET("/categories", cfg.CategoryHandler.List)
			api.GET("/categories/:id", cfg.CategoryHandler.Get)
			api.GET("/categories/:id/questions", cfg.CategoryHandler.ListQuestions)
			api.POST("/categories", cfg.CategoryHandler.Create)
			api.PATCH("/categories/:id", cfg.CategoryHandler.Update)
			api.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
		}

		// Questions
		if cfg.QuestionHandler != nil {
			api.GET("/questions", cfg.QuestionHandler.List)
			api.GET("/questions/:id", cfg.QuestionHandler.Get)
			api.GET("/questions/:id/options", cfg.QuestionHandler.ListOptions)
			api.POST("/questions", cfg.QuestionHandler.Create)
			api.POST("/questions/:id/options", cfg.QuestionHandler.CreateOption)
			api.PATCH("/questions/:id", cfg.QuestionHandler.Update)
			api.DELETE("/questions/:id", cfg.QuestionHandler.Delete)
			api.DELETE("/questions/options/:id", cfg.QuestionHandler.DeleteOption)
		}
	}

	return r
}
