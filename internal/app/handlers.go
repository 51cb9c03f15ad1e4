package app

import (
	"gorm.io/gorm"

	httpH "github.com/starsignlabs/zodiac-backend/internal/http/handlers"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type Handlers struct {
	Session  *httpH.SessionHandler
	Response *httpH.ResponseHandler
	Zodiac   *httpH.ZodiacHandler
	Category *httpH.CategoryHandler
	Question *httpH.QuestionHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Session:  httpH.NewSessionHandler(s.Session),
		Response: httpH.NewResponseHandler(s.Response),
		Zodiac:   httpH.NewZodiacHandler(s.Zodiac),
		Category: httpH.NewCategoryHandler(s.Category, s.Question),
		Question: httpH.NewQuestionHandler(s.Question),
		Health:   httpH.NewHealthHandler(db),
	}
}
