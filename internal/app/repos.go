package app

import (
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type Repos struct {
	Category       repos.CategoryRepo
	Question       repos.QuestionRepo
	QuestionOption repos.QuestionOptionRepo
	ZodiacScoring  repos.ZodiacScoringRepo
	Session        repos.SessionRepo
	Response       repos.ResponseRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Category:       repos.NewCategoryRepo(db, log),
		Question:       repos.NewQuestionRepo(db, log),
		QuestionOption: repos.NewQuestionOptionRepo(db, log),
		ZodiacScoring:  repos.NewZodiacScoringRepo(db, log),
		Session:        repos.NewSessionRepo(db, log),
		Response:       repos.NewResponseRepo(db, log),
	}
}
