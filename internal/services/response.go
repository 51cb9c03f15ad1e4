package services

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/storeerr"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type CreateResponseInput struct {
	SessionID        string `json:"sessionId"`
	QuestionID       string `json:"questionId"`
	SelectedOptionID string `json:"selectedOptionId"`
}

type BulkResult struct {
	Succeeded      []*types.UserResponse `json:"succeeded"`
	Failed         []BulkFailure         `json:"failed"`
	TotalProcessed int                   `json:"totalProcessed"`
}

type BulkFailure struct {
	Index int                 `json:"index"`
	Input CreateResponseInput `json:"input"`
	Error string              `json:"error"`
}

type ResponseService interface {
	Create(dbc dbctx.Context, input CreateResponseInput) (*types.UserResponse, error)
	Upsert(dbc dbctx.Context, input CreateResponseInput) (*types.UserResponse, error)
	Validate(dbc dbctx.Context, input CreateResponseInput) (*types.ResponseValidation, error)
	BulkCreate(dbc dbctx.Context, inputs []CreateResponseInput) (*BulkResult, error)
	GetByID(dbc dbctx.Context, id string) (*types.UserResponse, error)
	GetBySession(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error)
	GetDetailed(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error)
	GetBySessionAndQuestion(dbc dbctx.Context, sessionID, questionID string) (*types.UserResponse, error)
	Update(dbc dbctx.Context, id, selectedOptionID string) (*types.UserResponse, error)
	Delete(dbc dbctx.Context, id string) error
	DeleteBySession(dbc dbctx.Context, sessionID string) (int64, error)
	CompletionProgress(dbc dbctx.Context, sessionID string) (*types.CompletionProgress, error)
	SessionStats(dbc dbctx.Context, sessionID string) (*types.ResponseStats, error)
}

type responseService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       SurveyConfig
	responses repos.ResponseRepo
	sessions  repos.SessionRepo
	questions repos.QuestionRepo
	options   repos.QuestionOptionRepo
	scoring   repos.ZodiacScoringRepo
}

func NewResponseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg SurveyConfig,
	responses repos.ResponseRepo,
	sessions repos.SessionRepo,
	questions repos.QuestionRepo,
	options repos.QuestionOptionRepo,
	scoring repos.ZodiacScoringRepo,
) ResponseService {
	return &responseService{
		db:        db,
		log:       baseLog.With("service", "ResponseService"),
		cfg:       cfg,
		responses: responses,
		sessions:  sessions,
		questions: questions,
		options:   options,
		scoring:   scoring,
	}
}

// Validate checks a response submission without writing anything.
// Every check runs independently so a caller sees the full picture in
// one round trip; failing checks join their messages in a fixed order.
// A previous answer to the same question is reported but never
// invalidates.
func (s *responseService) Validate(dbc dbctx.Context, input CreateResponseInput) (*types.ResponseValidation, error) {
	v := &types.ResponseValidation{}

	session, err := s.sessions.GetBySessionID(dbc, input.SessionID)
	if err != nil {
		return nil, storeerr.Map("response.validate", err)
	}
	v.SessionExists = session != nil

	questionID, qidErr := uuid.Parse(input.QuestionID)
	if qidErr == nil {
		question, err := s.questions.GetByID(dbc, questionID)
		if err != nil {
			return nil, storeerr.Map("response.validate", err)
		}
		v.QuestionExists = question != nil
	}

	var option *types.QuestionOption
	if optionID, err := uuid.Parse(input.SelectedOptionID); err == nil {
		if option, err = s.options.GetByID(dbc, optionID); err != nil {
			return nil, storeerr.Map("response.validate", err)
		}
	}
	v.OptionExists = option != nil
	v.OptionBelongsToQuestion = option != nil && qidErr == nil && option.QuestionID == questionID

	if v.SessionExists && qidErr == nil {
		existing, err := s.responses.GetBySessionAndQuestion(dbc, input.SessionID, questionID)
		if err != nil {
			return nil, storeerr.Map("response.validate", err)
		}
		v.AlreadyAnswered = existing != nil
	}

	var issues []string
	if !v.SessionExists {
		issues = append(issues, "Session not found")
	}
	if !v.QuestionExists {
		issues = append(issues, "Question not found")
	}
	if !v.OptionExists {
		issues = append(issues, "Selected option not found")
	} else if !v.OptionBelongsToQuestion {
		issues = append(issues, "Selected option does not belong to the specified question")
	}
	v.Message = strings.Join(issues, ", ")
	v.IsValid = len(issues) == 0
	return v, nil
}

// Create inserts a new response and fails with a conflict when the
// question was already answered in this session.
func (s *responseService) Create(dbc dbctx.Context, input CreateResponseInput) (*types.UserResponse, error) {
	row, err := s.validatedRow(dbc, "response.create", input)
	if err != nil {
		return nil, err
	}
	created, err := s.responses.Create(dbc, row)
	if err != nil {
		return nil, storeerr.Map("response.create", err)
	}
	return created, nil
}

// Upsert inserts on first answer and overwrites selected_option_id on
// re-answer, preserving the original answeredAt. A duplicate-key
// conflict from a concurrent insert is retried as an update.
func (s *responseService) Upsert(dbc dbctx.Context, input CreateResponseInput) (*types.UserResponse, error) {
	row, err := s.validatedRow(dbc, "response.upsert", input)
	if err != nil {
		return nil, err
	}

	existing, err := s.responses.GetBySessionAndQuestion(dbc, input.SessionID, row.QuestionID)
	if err != nil {
		return nil, storeerr.Map("response.upsert", err)
	}
	if existing != nil {
		return s.overwriteOption(dbc, existing.ID, row.SelectedOptionID)
	}

	created, err := s.responses.Create(dbc, row)
	if err == nil {
		return created, nil
	}
	mapped := storeerr.Map("response.upsert", err)
	if !types.IsCode(mapped, types.CodeConflict) {
		return nil, mapped
	}

	// Lost the insert race; the row now exists, so update it.
	existing, err = s.responses.GetBySessionAndQuestion(dbc, input.SessionID, row.QuestionID)
	if err != nil {
		return nil, storeerr.Map("response.upsert", err)
	}
	if existing == nil {
		return nil, mapped
	}
	return s.overwriteOption(dbc, existing.ID, row.SelectedOptionID)
}

func (s *responseService) overwriteOption(dbc dbctx.Context, id, optionID uuid.UUID) (*types.UserResponse, error) {
	updates := map[string]any{"selected_option_id": optionID}
	if err := s.responses.UpdateFields(dbc, id, updates); err != nil {
		return nil, storeerr.Map("response.upsert", err)
	}
	updated, err := s.responses.GetByID(dbc, id)
	if err != nil {
		return nil, storeerr.Map("response.upsert", err)
	}
	return updated, nil
}

func (s *responseService) validatedRow(dbc dbctx.Context, op string, input CreateResponseInput) (*types.UserResponse, error) {
	v, err := s.Validate(dbc, input)
	if err != nil {
		return nil, err
	}
	if !v.IsValid {
		code := types.CodeValidation
		if !v.SessionExists || !v.QuestionExists || !v.OptionExists {
			code = types.CodeNotFound
		}
		return nil, types.NewError(code, op, v.Message, nil)
	}
	questionID, _ := uuid.Parse(input.QuestionID)
	optionID, _ := uuid.Parse(input.SelectedOptionID)
	return &types.UserResponse{
		SessionID:        input.SessionID,
		QuestionID:       questionID,
		SelectedOptionID: optionID,
	}, nil
}

// BulkCreate upserts each item independently: one bad item never
// rolls back its siblings. TotalProcessed always equals the input
// length.
func (s *responseService) BulkCreate(dbc dbctx.Context, inputs []CreateResponseInput) (*BulkResult, error) {
	if len(inputs) == 0 {
		return nil, types.NewError(types.CodeValidation, "response.bulk_create", "No responses provided", nil)
	}
	if len(inputs) > s.cfg.MaxBulkOperations {
		return nil, types.NewError(types.CodeValidation, "response.bulk_create",
			"Bulk operation exceeds the maximum batch size", nil)
	}

	result := &BulkResult{
		Succeeded:      []*types.UserResponse{},
		Failed:         []BulkFailure{},
		TotalProcessed: len(inputs),
	}
	for i, input := range inputs {
		created, err := s.Upsert(dbc, input)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{
				Index: i,
				Input: input,
				Error: err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, created)
	}
	return result, nil
}

func (s *responseService) GetByID(dbc dbctx.Context, id string) (*types.UserResponse, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "response.get", "Response not found", nil)
	}
	row, err := s.responses.GetByID(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("response.get", err)
	}
	if row == nil {
		return nil, types.NewError(types.CodeNotFound, "response.get", "Response not found", nil)
	}
	return row, nil
}

func (s *responseService) GetBySession(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error) {
	rows, err := s.responses.GetBySession(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("response.get_by_session", err)
	}
	return rows, nil
}

func (s *responseService) GetDetailed(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error) {
	rows, err := s.responses.GetDetailed(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("response.get_detailed", err)
	}
	return rows, nil
}

func (s *responseService) GetBySessionAndQuestion(dbc dbctx.Context, sessionID, questionID string) (*types.UserResponse, error) {
	parsed, err := uuid.Parse(questionID)
	if err != nil {
		return nil, nil
	}
	row, err := s.responses.GetBySessionAndQuestion(dbc, sessionID, parsed)
	if err != nil {
		return nil, storeerr.Map("response.get_by_session_and_question", err)
	}
	return row, nil
}

// Update changes the selected option of an existing response. The
// answeredAt timestamp is preserved.
func (s *responseService) Update(dbc dbctx.Context, id, selectedOptionID string) (*types.UserResponse, error) {
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}

	optionID, err := uuid.Parse(selectedOptionID)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "response.update", "Selected option not found", nil)
	}
	option, err := s.options.GetByID(dbc, optionID)
	if err != nil {
		return nil, storeerr.Map("response.update", err)
	}
	if option == nil {
		return nil, types.NewError(types.CodeNotFound, "response.update", "Selected option not found", nil)
	}
	if option.QuestionID != existing.QuestionID {
		return nil, types.NewError(types.CodeValidation, "response.update",
			"Selected option does not belong to the specified question", nil)
	}

	updates := map[string]any{"selected_option_id": optionID}
	if err := s.responses.UpdateFields(dbc, existing.ID, updates); err != nil {
		return nil, storeerr.Map("response.update", err)
	}
	updated, err := s.responses.GetByID(dbc, existing.ID)
	if err != nil {
		return nil, storeerr.Map("response.update", err)
	}
	return updated, nil
}

func (s *responseService) Delete(dbc dbctx.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return types.NewError(types.CodeNotFound, "response.delete", "Response not found", nil)
	}
	n, err := s.responses.Delete(dbc, parsed)
	if err != nil {
		return storeerr.Map("response.delete", err)
	}
	if n == 0 {
		return types.NewError(types.CodeNotFound, "response.delete", "Response not found", nil)
	}
	return nil
}

func (s *responseService) DeleteBySession(dbc dbctx.Context, sessionID string) (int64, error) {
	n, err := s.responses.DeleteBySession(dbc, sessionID)
	if err != nil {
		return 0, storeerr.Map("response.delete_by_session", err)
	}
	return n, nil
}

// CompletionProgress reports how far through the survey a session is
// and which question to show next. NextQuestion is nil once every
// question has an answer.
func (s *responseService) CompletionProgress(dbc dbctx.Context, sessionID string) (*types.CompletionProgress, error) {
	responses, err := s.responses.GetBySession(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("response.completion_progress", err)
	}

	total, err := s.questions.Count(dbc)
	if err != nil {
		return nil, storeerr.Map("response.completion_progress", err)
	}

	progress := &types.CompletionProgress{
		Completed:  len(responses),
		Total:      int(total),
		Percentage: roundPercent(len(responses), int(total)),
	}

	if len(responses) < int(total) {
		answered := make([]uuid.UUID, 0, len(responses))
		for _, r := range responses {
			answered = append(answered, r.QuestionID)
		}
		next, err := s.questions.FirstUnanswered(dbc, answered)
		if err != nil {
			return nil, storeerr.Map("response.completion_progress", err)
		}
		if next != nil {
			progress.NextQuestion = &next.ID
		}
	}
	return progress, nil
}

// SessionStats aggregates a session's responses by category and by
// zodiac sign, summing every scoring point the selected options carry.
func (s *responseService) SessionStats(dbc dbctx.Context, sessionID string) (*types.ResponseStats, error) {
	session, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("response.session_stats", err)
	}
	if session == nil {
		return nil, types.NewError(types.CodeNotFound, "response.session_stats", "Session not found", nil)
	}

	detailed, err := s.responses.GetDetailed(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("response.session_stats", err)
	}

	stats := &types.ResponseStats{
		SessionID:             sessionID,
		TotalResponses:        len(detailed),
		ResponsesByCategory:   map[uuid.UUID]int{},
		ResponsesByZodiacSign: map[string]int{},
		CompletionRate:        roundPercent(len(detailed), s.cfg.TotalQuestions),
	}

	var (
		gaps     float64
		gapCount int
		prev     *time.Time
	)
	for _, r := range detailed {
		if r.Question != nil {
			stats.ResponsesByCategory[r.Question.CategoryID]++
		}
		if r.SelectedOption != nil {
			for _, sc := range r.SelectedOption.Scoring {
				stats.ResponsesByZodiacSign[sc.ZodiacSign] += sc.ScoreValue
			}
		}
		if prev != nil {
			gaps += r.AnsweredAt.Sub(*prev).Seconds()
			gapCount++
		}
		t := r.AnsweredAt
		prev = &t
	}
	if gapCount > 0 {
		avg := round2(gaps / float64(gapCount))
		stats.AverageResponseTime = &avg
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
