package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/storeerr"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type CreateQuestionInput struct {
	CategoryID   string `json:"categoryId"`
	QuestionText string `json:"questionText"`
	OrderIndex   int    `json:"orderIndex"`
}

type UpdateQuestionInput struct {
	QuestionText *string `json:"questionText"`
	OrderIndex   *int    `json:"orderIndex"`
}

type CreateOptionInput struct {
	QuestionID string `json:"questionId"`
	OptionText string `json:"optionText"`
	OrderIndex int    `json:"orderIndex"`
}

type QuestionService interface {
	Create(dbc dbctx.Context, input CreateQuestionInput) (*types.Question, error)
	GetByID(dbc dbctx.Context, id string) (*types.Question, error)
	GetWithOptions(dbc dbctx.Context, id string) (*types.Question, error)
	GetAll(dbc dbctx.Context) ([]*types.Question, error)
	GetByCategory(dbc dbctx.Context, categoryID string) ([]*types.Question, error)
	Update(dbc dbctx.Context, id string, input UpdateQuestionInput) (*types.Question, error)
	Delete(dbc dbctx.Context, id string) error

	CreateOption(dbc dbctx.Context, input CreateOptionInput) (*types.QuestionOption, error)
	GetOptions(dbc dbctx.Context, questionID string) ([]*types.QuestionOption, error)
	DeleteOption(dbc dbctx.Context, id string) error
}

type questionService struct {
	db         *gorm.DB
	log        *logger.Logger
	questions  repos.QuestionRepo
	options    repos.QuestionOptionRepo
	categories repos.CategoryRepo
}

func NewQuestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	questions repos.QuestionRepo,
	options repos.QuestionOptionRepo,
	categories repos.CategoryRepo,
) QuestionService {
	return &questionService{
		db:         db,
		log:        baseLog.With("service", "QuestionService"),
		questions:  questions,
		options:    options,
		categories: categories,
	}
}

func (s *questionService) Create(dbc dbctx.Context, input CreateQuestionInput) (*types.Question, error) {
	text := strings.TrimSpace(input.QuestionText)
	if text == "" {
		return nil, types.NewError(types.CodeValidation, "question.create", "Question text is required", nil)
	}
	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "question.create", "Category not found", nil)
	}
	category, err := s.categories.GetByID(dbc, categoryID)
	if err != nil {
		return nil, storeerr.Map("question.create", err)
	}
	if category == nil {
		return nil, types.NewError(types.CodeNotFound, "question.create", "Category not found", nil)
	}

	row := &types.Question{
		CategoryID:   categoryID,
		QuestionText: text,
		OrderIndex:   input.OrderIndex,
	}
	created, err := s.questions.Create(dbc, row)
	if err != nil {
		return nil, storeerr.Map("question.create", err)
	}
	return created, nil
}

func (s *questionService) GetByID(dbc dbctx.Context, id string) (*types.Question, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "question.get", "Question not found", nil)
	}
	row, err := s.questions.GetByID(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("question.get", err)
	}
	if row == nil {
		return nil, types.NewError(types.CodeNotFound, "question.get", "Question not found", nil)
	}
	return row, nil
}

func (s *questionService) GetWithOptions(dbc dbctx.Context, id string) (*types.Question, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "question.get_with_options", "Question not found", nil)
	}
	row, err := s.questions.GetByIDWithOptions(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("question.get_with_options", err)
	}
	if row == nil {
		return nil, types.NewError(types.CodeNotFound, "question.get_with_options", "Question not found", nil)
	}
	return row, nil
}

func (s *questionService) GetAll(dbc dbctx.Context) ([]*types.Question, error) {
	rows, err := s.questions.GetAll(dbc)
	if err != nil {
		return nil, storeerr.Map("question.get_all", err)
	}
	return rows, nil
}

func (s *questionService) GetByCategory(dbc dbctx.Context, categoryID string) ([]*types.Question, error) {
	parsed, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "question.get_by_category", "Category not found", nil)
	}
	category, err := s.categories.GetByID(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("question.get_by_category", err)
	}
	if category == nil {
		return nil, types.NewError(types.CodeNotFound, "question.get_by_category", "Category not found", nil)
	}
	rows, err := s.questions.GetByCategory(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("question.get_by_category", err)
	}
	return rows, nil
}

func (s *questionService) Update(dbc dbctx.Context, id string, input UpdateQuestionInput) (*types.Question, error) {
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.QuestionText != nil {
		text := strings.TrimSpace(*input.QuestionText)
		if text == "" {
			return nil, types.NewError(types.CodeValidation, "question.update", "Question text is required", nil)
		}
		updates["question_text"] = text
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.questions.UpdateFields(dbc, existing.ID, updates); err != nil {
		return nil, storeerr.Map("question.update", err)
	}
	updated, err := s.questions.GetByID(dbc, existing.ID)
	if err != nil {
		return nil, storeerr.Map("question.update", err)
	}
	return updated, nil
}

func (s *questionService) Delete(dbc dbctx.Context, id string) error {
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if err := s.questions.Delete(dbc, existing.ID); err != nil {
		return storeerr.Map("question.delete", err)
	}
	return nil
}

func (s *questionService) CreateOption(dbc dbctx.Context, input CreateOptionInput) (*types.QuestionOption, error) {
	text := strings.TrimSpace(input.OptionText)
	if text == "" {
		return nil, types.NewError(types.CodeValidation, "question.create_option", "Option text is required", nil)
	}
	question, err := s.GetByID(dbc, input.QuestionID)
	if err != nil {
		return nil, err
	}

	row := &types.QuestionOption{
		QuestionID: question.ID,
		OptionText: text,
		OrderIndex: input.OrderIndex,
	}
	created, err := s.options.Create(dbc, row)
	if err != nil {
		return nil, storeerr.Map("question.create_option", err)
	}
	return created, nil
}

func (s *questionService) GetOptions(dbc dbctx.Context, questionID string) ([]*types.QuestionOption, error) {
	question, err := s.GetByID(dbc, questionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.options.GetByQuestion(dbc, question.ID)
	if err != nil {
		return nil, storeerr.Map("question.get_options", err)
	}
	return rows, nil
}

func (s *questionService) DeleteOption(dbc dbctx.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return types.NewError(types.CodeNotFound, "question.delete_option", "Option not found", nil)
	}
	option, err := s.options.GetByID(dbc, parsed)
	if err != nil {
		return storeerr.Map("question.delete_option", err)
	}
	if option == nil {
		return types.NewError(types.CodeNotFound, "question.delete_option", "Option not found", nil)
	}
	if err := s.options.Delete(dbc, parsed); err != nil {
		return storeerr.Map("question.delete_option", err)
	}
	return nil
}
