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

func newResponseService(t *testing.T, tx *gorm.DB) (ResponseService, dbctx.Context) {
	t.Helper()
	log := testutil.Logger(t)
	svc := NewResponseService(
		tx, log, DefaultSurveyConfig(),
		repos.NewResponseRepo(tx, log),
		repos.NewSessionRepo(tx, log),
		repos.NewQuestionRepo(tx, log),
		repos.NewQuestionOptionRepo(tx, log),
		repos.NewZodiacScoringRepo(tx, log),
	)
	return svc, dbctx.Context{Ctx: context.Background(), Tx: tx}
}

type surveyFixture struct {
	session *types.UserSession
	q1, q2  *types.Question
	q1opt1  *types.QuestionOption
	q1opt2  *types.QuestionOption
	q2opt1  *types.QuestionOption
}

func seedSurvey(t *testing.T, tx *gorm.DB) surveyFixture {
	t.Helper()
	cat := testutil.SeedCategory(t, tx, 1)
	q1 := testutil.SeedQuestion(t, tx, cat.ID, 1)
	q2 := testutil.SeedQuestion(t, tx, cat.ID, 2)
	return surveyFixture{
		session: testutil.SeedSession(t, tx, "session_survey_1", time.Now()),
		q1:      q1,
		q2:      q2,
		q1opt1:  testutil.SeedOption(t, tx, q1.ID, 1),
		q1opt2:  testutil.SeedOption(t, tx, q1.ID, 2),
		q2opt1:  testutil.SeedOption(t, tx, q2.ID, 1),
	}
}

func TestValidateReportsAllIssues(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	cases := []struct {
		name    string
		input   CreateResponseInput
		message string
	}{
		{
			name: "everything missing joins every message",
			input: CreateResponseInput{
				SessionID:        "session_ghost",
				QuestionID:       uuid.NewString(),
				SelectedOptionID: uuid.NewString(),
			},
			message: "Session not found, Question not found, Selected option not found",
		},
		{
			name: "missing session alone",
			input: CreateResponseInput{
				SessionID:        "session_ghost",
				QuestionID:       fx.q1.ID.String(),
				SelectedOptionID: fx.q1opt1.ID.String(),
			},
			message: "Session not found",
		},
		{
			name: "missing question flags the orphaned option too",
			input: CreateResponseInput{
				SessionID:        fx.session.SessionID,
				QuestionID:       uuid.NewString(),
				SelectedOptionID: fx.q1opt1.ID.String(),
			},
			message: "Question not found, Selected option does not belong to the specified question",
		},
		{
			name: "malformed question id degrades to not found",
			input: CreateResponseInput{
				SessionID:        fx.session.SessionID,
				QuestionID:       "not-a-uuid",
				SelectedOptionID: fx.q1opt1.ID.String(),
			},
			message: "Question not found, Selected option does not belong to the specified question",
		},
		{
			name: "missing option",
			input: CreateResponseInput{
				SessionID:        fx.session.SessionID,
				QuestionID:       fx.q1.ID.String(),
				SelectedOptionID: uuid.NewString(),
			},
			message: "Selected option not found",
		},
		{
			name: "option on wrong question",
			input: CreateResponseInput{
				SessionID:        fx.session.SessionID,
				QuestionID:       fx.q1.ID.String(),
				SelectedOptionID: fx.q2opt1.ID.String(),
			},
			message: "Selected option does not belong to the specified question",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := svc.Validate(dbc, tc.input)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if v.IsValid {
				t.Fatalf("expected invalid, got %+v", v)
			}
			if v.Message != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, v.Message)
			}
		})
	}
}

func TestValidateChecksRunIndependently(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	// A missing session must not hide the state of the other checks.
	v, err := svc.Validate(dbc, CreateResponseInput{
		SessionID:        "session_ghost",
		QuestionID:       fx.q1.ID.String(),
		SelectedOptionID: fx.q1opt1.ID.String(),
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.SessionExists {
		t.Fatal("expected sessionExists=false")
	}
	if !v.QuestionExists || !v.OptionExists || !v.OptionBelongsToQuestion {
		t.Fatalf("expected question and option checks to still pass: %+v", v)
	}
}

func TestValidateAlreadyAnsweredIsInformational(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q1.ID, fx.q1opt1.ID, time.Now())

	v, err := svc.Validate(dbc, CreateResponseInput{
		SessionID:        fx.session.SessionID,
		QuestionID:       fx.q1.ID.String(),
		SelectedOptionID: fx.q1opt2.ID.String(),
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !v.IsValid {
		t.Fatalf("already answered must stay valid: %+v", v)
	}
	if !v.AlreadyAnswered {
		t.Fatal("expected alreadyAnswered to be reported")
	}
}

func TestCreateConflictsOnDuplicate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	input := CreateResponseInput{
		SessionID:        fx.session.SessionID,
		QuestionID:       fx.q1.ID.String(),
		SelectedOptionID: fx.q1opt1.ID.String(),
	}
	if _, err := svc.Create(dbc, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(dbc, input)
	if !types.IsCode(err, types.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpsertPreservesAnsweredAt(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	first, err := svc.Upsert(dbc, CreateResponseInput{
		SessionID:        fx.session.SessionID,
		QuestionID:       fx.q1.ID.String(),
		SelectedOptionID: fx.q1opt1.ID.String(),
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := svc.Upsert(dbc, CreateResponseInput{
		SessionID:        fx.session.SessionID,
		QuestionID:       fx.q1.ID.String(),
		SelectedOptionID: fx.q1opt2.ID.String(),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("upsert created a new row: %s vs %s", second.ID, first.ID)
	}
	if second.SelectedOptionID != fx.q1opt2.ID {
		t.Fatalf("option not overwritten: %s", second.SelectedOptionID)
	}
	if !second.AnsweredAt.Equal(first.AnsweredAt) {
		t.Fatalf("answeredAt changed: %v vs %v", second.AnsweredAt, first.AnsweredAt)
	}

	rows, err := svc.GetBySession(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("get responses: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single row after repeated upserts, got %d", len(rows))
	}
}

func TestBulkCreatePartialFailure(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	inputs := []CreateResponseInput{
		{
			SessionID:        fx.session.SessionID,
			QuestionID:       fx.q1.ID.String(),
			SelectedOptionID: fx.q1opt1.ID.String(),
		},
		{
			SessionID:        fx.session.SessionID,
			QuestionID:       fx.q2.ID.String(),
			SelectedOptionID: uuid.NewString(),
		},
	}
	result, err := svc.BulkCreate(dbc, inputs)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if result.TotalProcessed != 2 {
		t.Fatalf("expected totalProcessed 2, got %d", result.TotalProcessed)
	}
	if len(result.Succeeded) != 1 || len(result.Failed) != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d/%d", len(result.Succeeded), len(result.Failed))
	}
	if result.Failed[0].Index != 1 {
		t.Fatalf("wrong failed index: %d", result.Failed[0].Index)
	}

	// The good item was persisted despite its sibling failing.
	rows, err := svc.GetBySession(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("get responses: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 persisted response, got %d", len(rows))
	}
}

func TestBulkCreateLimits(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)

	if _, err := svc.BulkCreate(dbc, nil); !types.IsCode(err, types.CodeValidation) {
		t.Fatalf("empty batch should fail validation, got %v", err)
	}

	oversized := make([]CreateResponseInput, DefaultSurveyConfig().MaxBulkOperations+1)
	if _, err := svc.BulkCreate(dbc, oversized); !types.IsCode(err, types.CodeValidation) {
		t.Fatalf("oversized batch should fail validation, got %v", err)
	}
}

func TestCompletionProgressNextQuestion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q1.ID, fx.q1opt1.ID, time.Now())

	progress, err := svc.CompletionProgress(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("completion progress: %v", err)
	}
	if progress.Completed != 1 || progress.Total != 2 {
		t.Fatalf("unexpected progress counts: %+v", progress)
	}
	if progress.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", progress.Percentage)
	}
	if progress.NextQuestion == nil || *progress.NextQuestion != fx.q2.ID {
		t.Fatalf("expected next question %s, got %v", fx.q2.ID, progress.NextQuestion)
	}

	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q2.ID, fx.q2opt1.ID, time.Now())
	progress, err = svc.CompletionProgress(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("completion progress: %v", err)
	}
	if progress.NextQuestion != nil {
		t.Fatalf("expected no next question, got %v", *progress.NextQuestion)
	}
}

func TestUpdateResponseChecksOptionOwnership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	created := testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q1.ID, fx.q1opt1.ID, time.Now())

	_, err := svc.Update(dbc, created.ID.String(), fx.q2opt1.ID.String())
	if !types.IsCode(err, types.CodeValidation) {
		t.Fatalf("cross-question option should fail validation, got %v", err)
	}

	updated, err := svc.Update(dbc, created.ID.String(), fx.q1opt2.ID.String())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SelectedOptionID != fx.q1opt2.ID {
		t.Fatalf("option not updated: %s", updated.SelectedOptionID)
	}
	if !updated.AnsweredAt.Equal(created.AnsweredAt) {
		t.Fatal("answeredAt must survive an update")
	}
}

func TestDeleteBySession(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q1.ID, fx.q1opt1.ID, time.Now())
	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q2.ID, fx.q2opt1.ID, time.Now())

	n, err := svc.DeleteBySession(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("delete by session: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	rows, err := svc.GetBySession(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("get responses: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no responses left, got %d", len(rows))
	}
}

func TestSessionStatsSumScorePoints(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	fx := seedSurvey(t, tx)

	testutil.SeedScoring(t, tx, fx.q1opt1.ID, "aries", 8)
	testutil.SeedScoring(t, tx, fx.q2opt1.ID, "aries", 2)
	testutil.SeedScoring(t, tx, fx.q2opt1.ID, "leo", 5)

	base := time.Now().UTC().Truncate(time.Second)
	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q1.ID, fx.q1opt1.ID, base)
	testutil.SeedResponse(t, tx, fx.session.SessionID, fx.q2.ID, fx.q2opt1.ID, base.Add(10*time.Second))

	stats, err := svc.SessionStats(dbc, fx.session.SessionID)
	if err != nil {
		t.Fatalf("session stats: %v", err)
	}
	if stats.TotalResponses != 2 {
		t.Fatalf("expected 2 responses, got %d", stats.TotalResponses)
	}
	if stats.ResponsesByZodiacSign["aries"] != 10 || stats.ResponsesByZodiacSign["leo"] != 5 {
		t.Fatalf("expected summed points aries=10 leo=5, got %v", stats.ResponsesByZodiacSign)
	}
	if len(stats.ResponsesByZodiacSign) != 2 {
		t.Fatalf("unscored signs must not appear: %v", stats.ResponsesByZodiacSign)
	}
	if stats.ResponsesByCategory[fx.q1.CategoryID] != 2 {
		t.Fatalf("expected 2 responses in category, got %v", stats.ResponsesByCategory)
	}
	if stats.CompletionRate != 13 {
		t.Fatalf("expected completion rate 13, got %d", stats.CompletionRate)
	}
	if stats.AverageResponseTime == nil || *stats.AverageResponseTime != 10 {
		t.Fatalf("expected average response time 10s, got %v", stats.AverageResponseTime)
	}
}

func TestCompletionProgressEmptyCatalog(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newResponseService(t, tx)
	session := testutil.SeedSession(t, tx, "session_empty_catalog", time.Now())

	progress, err := svc.CompletionProgress(dbc, session.SessionID)
	if err != nil {
		t.Fatalf("completion progress: %v", err)
	}
	if progress.Completed != 0 || progress.Total != 0 || progress.Percentage != 0 {
		t.Fatalf("expected zeroed progress, got %+v", progress)
	}
	if progress.NextQuestion != nil {
		t.Fatalf("expected no next question, got %v", *progress.NextQuestion)
	}
}
