package app

import (
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type Services struct {
	Session  services.SessionService
	Response services.ResponseService
	Zodiac   services.ZodiacService
	Category services.CategoryService
	Question services.QuestionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Session: services.NewSessionService(db, log, cfg.Survey, r.Session, r.Response),
		Response: services.NewResponseService(
			db, log, cfg.Survey,
			r.Response, r.Session, r.Question, r.QuestionOption, r.ZodiacScoring,
		),
		Zodiac: services.NewZodiacService(
			db, log, cfg.Survey,
			r.ZodiacScoring, r.Response, r.Session, r.QuestionOption,
		),
		Category: services.NewCategoryService(db, log, r.Category),
		Question: services.NewQuestionService(db, log, r.Question, r.QuestionOption, r.Category),
	}
}
