package services

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/storeerr"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type ScoringInput struct {
	QuestionOptionID string `json:"questionOptionId"`
	ZodiacSign       string `json:"zodiacSign"`
	ScoreValue       int    `json:"scoreValue"`
}

type ZodiacService interface {
	Calculate(dbc dbctx.Context, sessionID string) (*types.ZodiacResult, error)
	Stats(dbc dbctx.Context) (*types.ScoringStats, error)
	CreateScoring(dbc dbctx.Context, input ScoringInput) (*types.ZodiacScoring, error)
	CreateScoringBatch(dbc dbctx.Context, inputs []ScoringInput) ([]*types.ZodiacScoring, error)
	GetScoringByOption(dbc dbctx.Context, optionID string) ([]*types.ZodiacScoring, error)
	GetScoringBySign(dbc dbctx.Context, sign string) ([]*types.ZodiacScoring, error)
	UpdateScoring(dbc dbctx.Context, id string, scoreValue int) (*types.ZodiacScoring, error)
	DeleteScoring(dbc dbctx.Context, id string) error
}

type zodiacService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       SurveyConfig
	scoring   repos.ZodiacScoringRepo
	responses repos.ResponseRepo
	sessions  repos.SessionRepo
	options   repos.QuestionOptionRepo
}

func NewZodiacService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg SurveyConfig,
	scoring repos.ZodiacScoringRepo,
	responses repos.ResponseRepo,
	sessions repos.SessionRepo,
	options repos.QuestionOptionRepo,
) ZodiacService {
	return &zodiacService{
		db:        db,
		log:       baseLog.With("service", "ZodiacService"),
		cfg:       cfg,
		scoring:   scoring,
		responses: responses,
		sessions:  sessions,
		options:   options,
	}
}

// Calculate sums scoring rows across every option the session
// selected and predicts the highest-scoring sign. Ties break by
// canonical zodiac order. Confidence is the winning score as a
// percentage of the maximum attainable across the responses whose
// option carries scoring rows.
func (s *zodiacService) Calculate(dbc dbctx.Context, sessionID string) (*types.ZodiacResult, error) {
	session, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("zodiac.calculate", err)
	}
	if session == nil {
		return nil, types.NewError(types.CodeNotFound, "zodiac.calculate", "Session not found", nil)
	}

	responses, err := s.responses.GetBySession(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("zodiac.calculate", err)
	}
	if len(responses) == 0 {
		return nil, types.NewError(types.CodeNotFound, "zodiac.calculate",
			"No responses found for session", nil)
	}

	optionIDs := make([]uuid.UUID, 0, len(responses))
	for _, r := range responses {
		optionIDs = append(optionIDs, r.SelectedOptionID)
	}
	rows, err := s.scoring.GetByOptions(dbc, optionIDs)
	if err != nil {
		return nil, storeerr.Map("zodiac.calculate", err)
	}
	if len(rows) == 0 {
		return nil, types.NewError(types.CodeNotFound, "zodiac.calculate",
			"No responses found for session", nil)
	}

	scores := map[string]int{}
	for _, sign := range types.ZodiacSigns {
		scores[sign] = 0
	}
	scoredOptions := map[uuid.UUID]bool{}
	for _, row := range rows {
		scoredOptions[row.QuestionOptionID] = true
		if types.IsZodiacSign(row.ZodiacSign) {
			scores[row.ZodiacSign] += row.ScoreValue
		}
	}

	predicted := types.ZodiacSigns[0]
	best := scores[predicted]
	for _, sign := range types.ZodiacSigns[1:] {
		if scores[sign] > best {
			predicted = sign
			best = scores[sign]
		}
	}

	scored := 0
	for _, r := range responses {
		if scoredOptions[r.SelectedOptionID] {
			scored++
		}
	}
	maxPossible := scored * types.MaxScoreValue
	confidence := 0
	if maxPossible > 0 && best > 0 {
		confidence = int(math.Round(float64(best) / float64(maxPossible) * 100))
	}

	return &types.ZodiacResult{
		SessionID:     sessionID,
		PredictedSign: predicted,
		Scores:        scores,
		Confidence:    confidence,
	}, nil
}

// Stats summarizes the whole scoring table: entries per sign and the
// average score per sign rounded to two decimals. Every sign appears
// even with zero entries, and empty averages are 0 rather than NaN.
func (s *zodiacService) Stats(dbc dbctx.Context) (*types.ScoringStats, error) {
	rows, err := s.scoring.GetAll(dbc)
	if err != nil {
		return nil, storeerr.Map("zodiac.stats", err)
	}

	stats := &types.ScoringStats{
		TotalEntries:        len(rows),
		SignDistribution:    map[string]int{},
		AverageScorePerSign: map[string]float64{},
	}
	sums := map[string]int{}
	for _, sign := range types.ZodiacSigns {
		stats.SignDistribution[sign] = 0
		stats.AverageScorePerSign[sign] = 0
	}
	for _, row := range rows {
		if !types.IsZodiacSign(row.ZodiacSign) {
			continue
		}
		stats.SignDistribution[row.ZodiacSign]++
		sums[row.ZodiacSign] += row.ScoreValue
	}
	for sign, count := range stats.SignDistribution {
		if count > 0 {
			stats.AverageScorePerSign[sign] = round2(float64(sums[sign]) / float64(count))
		}
	}
	return stats, nil
}

func (s *zodiacService) CreateScoring(dbc dbctx.Context, input ScoringInput) (*types.ZodiacScoring, error) {
	row, err := s.validatedScoringRow(dbc, "zodiac.create_scoring", input)
	if err != nil {
		return nil, err
	}
	created, err := s.scoring.Create(dbc, row)
	if err != nil {
		return nil, storeerr.Map("zodiac.create_scoring", err)
	}
	return created, nil
}

// CreateScoringBatch is all-or-nothing: every row validates before
// anything is written, then the batch inserts in one statement.
func (s *zodiacService) CreateScoringBatch(dbc dbctx.Context, inputs []ScoringInput) ([]*types.ZodiacScoring, error) {
	if len(inputs) == 0 {
		return nil, types.NewError(types.CodeValidation, "zodiac.create_scoring_batch",
			"No scoring entries provided", nil)
	}
	rows := make([]*types.ZodiacScoring, 0, len(inputs))
	for _, input := range inputs {
		row, err := s.validatedScoringRow(dbc, "zodiac.create_scoring_batch", input)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	created, err := s.scoring.CreateBatch(dbc, rows)
	if err != nil {
		return nil, storeerr.Map("zodiac.create_scoring_batch", err)
	}
	return created, nil
}

func (s *zodiacService) validatedScoringRow(dbc dbctx.Context, op string, input ScoringInput) (*types.ZodiacScoring, error) {
	if !types.IsZodiacSign(input.ZodiacSign) {
		return nil, types.NewError(types.CodeValidation, op, "Invalid zodiac sign", nil)
	}
	if input.ScoreValue < types.MinScoreValue || input.ScoreValue > types.MaxScoreValue {
		return nil, types.NewError(types.CodeValidation, op, "Score value out of range", nil)
	}
	optionID, err := uuid.Parse(input.QuestionOptionID)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, op, "Question option not found", nil)
	}
	option, err := s.options.GetByID(dbc, optionID)
	if err != nil {
		return nil, storeerr.Map(op, err)
	}
	if option == nil {
		return nil, types.NewError(types.CodeNotFound, op, "Question option not found", nil)
	}
	return &types.ZodiacScoring{
		QuestionOptionID: optionID,
		ZodiacSign:       input.ZodiacSign,
		ScoreValue:       input.ScoreValue,
	}, nil
}

func (s *zodiacService) GetScoringByOption(dbc dbctx.Context, optionID string) ([]*types.ZodiacScoring, error) {
	parsed, err := uuid.Parse(optionID)
	if err != nil {
		return []*types.ZodiacScoring{}, nil
	}
	rows, err := s.scoring.GetByOption(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("zodiac.get_scoring_by_option", err)
	}
	return rows, nil
}

func (s *zodiacService) GetScoringBySign(dbc dbctx.Context, sign string) ([]*types.ZodiacScoring, error) {
	if !types.IsZodiacSign(sign) {
		return nil, types.NewError(types.CodeValidation, "zodiac.get_scoring_by_sign", "Invalid zodiac sign", nil)
	}
	rows, err := s.scoring.GetBySign(dbc, sign)
	if err != nil {
		return nil, storeerr.Map("zodiac.get_scoring_by_sign", err)
	}
	return rows, nil
}

func (s *zodiacService) UpdateScoring(dbc dbctx.Context, id string, scoreValue int) (*types.ZodiacScoring, error) {
	if scoreValue < types.MinScoreValue || scoreValue > types.MaxScoreValue {
		return nil, types.NewError(types.CodeValidation, "zodiac.update_scoring", "Score value out of range", nil)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewError(types.CodeNotFound, "zodiac.update_scoring", "Scoring entry not found", nil)
	}
	if err := s.scoring.UpdateFields(dbc, parsed, map[string]any{"score_value": scoreValue}); err != nil {
		return nil, storeerr.Map("zodiac.update_scoring", err)
	}
	updated, err := s.scoring.GetByID(dbc, parsed)
	if err != nil {
		return nil, storeerr.Map("zodiac.update_scoring", err)
	}
	if updated == nil {
		return nil, types.NewError(types.CodeNotFound, "zodiac.update_scoring", "Scoring entry not found", nil)
	}
	return updated, nil
}

func (s *zodiacService) DeleteScoring(dbc dbctx.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return types.NewError(types.CodeNotFound, "zodiac.delete_scoring", "Scoring entry not found", nil)
	}
	if err := s.scoring.Delete(dbc, parsed); err != nil {
		return storeerr.Map("zodiac.delete_scoring", err)
	}
	return nil
}
