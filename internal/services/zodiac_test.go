package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/repos/testutil"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
)

func newZodiacService(t *testing.T, tx *gorm.DB) (ZodiacService, dbctx.Context) {
	t.Helper()
	log := testutil.Logger(t)
	svc := NewZodiacService(
		tx, log, DefaultSurveyConfig(),
		repos.NewZodiacScoringRepo(tx, log),
		repos.NewResponseRepo(tx, log),
		repos.NewSessionRepo(tx, log),
		repos.NewQuestionOptionRepo(tx, log),
	)
	return svc, dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func TestCalculateAggregatesAcrossResponses(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q1 := testutil.SeedQuestion(t, tx, cat.ID, 1)
	q2 := testutil.SeedQuestion(t, tx, cat.ID, 2)
	opt1 := testutil.SeedOption(t, tx, q1.ID, 1)
	opt2 := testutil.SeedOption(t, tx, q2.ID, 1)
	testutil.SeedScoring(t, tx, opt1.ID, "aries", 10)
	testutil.SeedScoring(t, tx, opt1.ID, "leo", 5)
	testutil.SeedScoring(t, tx, opt2.ID, "aries", 7)

	sess := testutil.SeedSession(t, tx, "session_calc_1", time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q1.ID, opt1.ID, time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q2.ID, opt2.ID, time.Now())

	result, err := svc.Calculate(dbc, sess.SessionID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.PredictedSign != "aries" {
		t.Fatalf("expected aries, got %s", result.PredictedSign)
	}
	if result.Scores["aries"] != 17 || result.Scores["leo"] != 5 {
		t.Fatalf("unexpected scores: %+v", result.Scores)
	}
	if len(result.Scores) != 12 {
		t.Fatalf("every sign must appear in scores, got %d", len(result.Scores))
	}
	// 17 of a possible 20 rounds to 85.
	if result.Confidence != 85 {
		t.Fatalf("expected confidence 85, got %d", result.Confidence)
	}
}

func TestCalculateTieBreaksByCanonicalOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q := testutil.SeedQuestion(t, tx, cat.ID, 1)
	opt := testutil.SeedOption(t, tx, q.ID, 1)
	// pisces seeded first; taurus still precedes it canonically.
	testutil.SeedScoring(t, tx, opt.ID, "pisces", 8)
	testutil.SeedScoring(t, tx, opt.ID, "taurus", 8)

	sess := testutil.SeedSession(t, tx, "session_tie_1", time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q.ID, opt.ID, time.Now())

	result, err := svc.Calculate(dbc, sess.SessionID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.PredictedSign != "taurus" {
		t.Fatalf("tie must break by canonical order, got %s", result.PredictedSign)
	}
}

func TestCalculateRequiresResponses(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	sess := testutil.SeedSession(t, tx, "session_empty_1", time.Now())
	_, err := svc.Calculate(dbc, sess.SessionID)
	if !types.IsCode(err, types.CodeNotFound) {
		t.Fatalf("empty session should report no responses, got %v", err)
	}

	_, err = svc.Calculate(dbc, "session_ghost")
	if !types.IsCode(err, types.CodeNotFound) {
		t.Fatalf("missing session should be not_found, got %v", err)
	}
}

func TestCalculateRequiresScoringRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q := testutil.SeedQuestion(t, tx, cat.ID, 1)
	opt := testutil.SeedOption(t, tx, q.ID, 1)

	sess := testutil.SeedSession(t, tx, "session_unscored_1", time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q.ID, opt.ID, time.Now())

	// Answered, but no option carries scoring rows.
	_, err := svc.Calculate(dbc, sess.SessionID)
	if !types.IsCode(err, types.CodeNotFound) {
		t.Fatalf("session without scored options should be not_found, got %v", err)
	}
}

func TestCalculateConfidenceIgnoresUnscoredResponses(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q1 := testutil.SeedQuestion(t, tx, cat.ID, 1)
	q2 := testutil.SeedQuestion(t, tx, cat.ID, 2)
	scored := testutil.SeedOption(t, tx, q1.ID, 1)
	unscored := testutil.SeedOption(t, tx, q2.ID, 1)
	testutil.SeedScoring(t, tx, scored.ID, "gemini", 9)

	sess := testutil.SeedSession(t, tx, "session_partial_scored_1", time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q1.ID, scored.ID, time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q2.ID, unscored.ID, time.Now())

	result, err := svc.Calculate(dbc, sess.SessionID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// Only the scored response counts toward the maximum: 9 of 10.
	if result.Confidence != 90 {
		t.Fatalf("expected confidence 90, got %d", result.Confidence)
	}
}

func TestScoringStatsAverages(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q := testutil.SeedQuestion(t, tx, cat.ID, 1)
	opt := testutil.SeedOption(t, tx, q.ID, 1)
	testutil.SeedScoring(t, tx, opt.ID, "aries", 10)
	testutil.SeedScoring(t, tx, opt.ID, "aries", 5)
	testutil.SeedScoring(t, tx, opt.ID, "leo", 3)

	stats, err := svc.Stats(dbc)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalEntries != 3 {
		t.Fatalf("expected 3 entries, got %d", stats.TotalEntries)
	}
	if stats.SignDistribution["aries"] != 2 || stats.SignDistribution["leo"] != 1 {
		t.Fatalf("unexpected distribution: %+v", stats.SignDistribution)
	}
	if stats.AverageScorePerSign["aries"] != 7.5 {
		t.Fatalf("expected aries average 7.5, got %v", stats.AverageScorePerSign["aries"])
	}
	// Signs with no entries report 0, never NaN.
	if stats.AverageScorePerSign["virgo"] != 0 {
		t.Fatalf("expected virgo average 0, got %v", stats.AverageScorePerSign["virgo"])
	}
	if len(stats.SignDistribution) != 12 || len(stats.AverageScorePerSign) != 12 {
		t.Fatal("every sign must appear in stats maps")
	}
}

func TestScoringCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q := testutil.SeedQuestion(t, tx, cat.ID, 1)
	opt := testutil.SeedOption(t, tx, q.ID, 1)

	created, err := svc.CreateScoring(dbc, ScoringInput{
		QuestionOptionID: opt.ID.String(),
		ZodiacSign:       "gemini",
		ScoreValue:       7,
	})
	if err != nil {
		t.Fatalf("create scoring: %v", err)
	}

	_, err = svc.CreateScoring(dbc, ScoringInput{
		QuestionOptionID: opt.ID.String(),
		ZodiacSign:       "ophiuchus",
		ScoreValue:       5,
	})
	if !types.IsCode(err, types.CodeValidation) {
		t.Fatalf("invalid sign should fail validation, got %v", err)
	}

	_, err = svc.CreateScoring(dbc, ScoringInput{
		QuestionOptionID: opt.ID.String(),
		ZodiacSign:       "gemini",
		ScoreValue:       11,
	})
	if !types.IsCode(err, types.CodeValidation) {
		t.Fatalf("out-of-range score should fail validation, got %v", err)
	}

	_, err = svc.CreateScoring(dbc, ScoringInput{
		QuestionOptionID: uuid.NewString(),
		ZodiacSign:       "gemini",
		ScoreValue:       5,
	})
	if !types.IsCode(err, types.CodeNotFound) {
		t.Fatalf("missing option should be not_found, got %v", err)
	}

	updated, err := svc.UpdateScoring(dbc, created.ID.String(), 9)
	if err != nil {
		t.Fatalf("update scoring: %v", err)
	}
	if updated.ScoreValue != 9 {
		t.Fatalf("score not updated: %d", updated.ScoreValue)
	}

	bySign, err := svc.GetScoringBySign(dbc, "gemini")
	if err != nil {
		t.Fatalf("get by sign: %v", err)
	}
	if len(bySign) != 1 {
		t.Fatalf("expected 1 gemini row, got %d", len(bySign))
	}

	if err := svc.DeleteScoring(dbc, created.ID.String()); err != nil {
		t.Fatalf("delete scoring: %v", err)
	}
	byOption, err := svc.GetScoringByOption(dbc, opt.ID.String())
	if err != nil {
		t.Fatalf("get by option: %v", err)
	}
	if len(byOption) != 0 {
		t.Fatalf("expected no rows after delete, got %d", len(byOption))
	}
}

func TestScoringBatchIsAllOrNothing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newZodiacService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q := testutil.SeedQuestion(t, tx, cat.ID, 1)
	opt := testutil.SeedOption(t, tx, q.ID, 1)

	_, err := svc.CreateScoringBatch(dbc, []ScoringInput{
		{QuestionOptionID: opt.ID.String(), ZodiacSign: "aries", ScoreValue: 5},
		{QuestionOptionID: opt.ID.String(), ZodiacSign: "bogus", ScoreValue: 5},
	})
	if !types.IsCode(err, types.CodeValidation) {
		t.Fatalf("bad batch item should fail the batch, got %v", err)
	}

	rows, err := svc.GetScoringByOption(dbc, opt.ID.String())
	if err != nil {
		t.Fatalf("get by option: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("failed batch must write nothing, got %d rows", len(rows))
	}

	created, err := svc.CreateScoringBatch(dbc, []ScoringInput{
		{QuestionOptionID: opt.ID.String(), ZodiacSign: "aries", ScoreValue: 5},
		{QuestionOptionID: opt.ID.String(), ZodiacSign: "leo", ScoreValue: 8},
	})
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(created))
	}
}
