package repos

import (
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos/catalog"
	"github.com/starsignlabs/zodiac-backend/internal/data/repos/survey"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type CategoryRepo = catalog.CategoryRepo
type QuestionRepo = catalog.QuestionRepo
type QuestionOptionRepo = catalog.QuestionOptionRepo
type ZodiacScoringRepo = catalog.ZodiacScoringRepo

type SessionRepo = survey.SessionRepo
type ResponseRepo = survey.ResponseRepo

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return catalog.NewQuestionRepo(db, baseLog)
}
func NewQuestionOptionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionOptionRepo {
	return catalog.NewQuestionOptionRepo(db, baseLog)
}
func NewZodiacScoringRepo(db *gorm.DB, baseLog *logger.Logger) ZodiacScoringRepo {
	return catalog.NewZodiacScoringRepo(db, baseLog)
}
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return survey.NewSessionRepo(db, baseLog)
}
func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return survey.NewResponseRepo(db, baseLog)
}
