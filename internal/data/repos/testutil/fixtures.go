package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
)

// SeedCategory inserts a category with a unique name.
func SeedCategory(tb testing.TB, tx *gorm.DB, orderIndex int) *types.Category {
	tb.Helper()
	row := &types.Category{
		ID:         uuid.New(),
		Name:       fmt.Sprintf("category-%s", uuid.NewString()[:8]),
		OrderIndex: orderIndex,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return row
}

// SeedQuestion inserts a question under the given category.
func SeedQuestion(tb testing.TB, tx *gorm.DB, categoryID uuid.UUID, orderIndex int) *types.Question {
	tb.Helper()
	row := &types.Question{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		QuestionText: fmt.Sprintf("question %d", orderIndex),
		OrderIndex:   orderIndex,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return row
}

// SeedOption inserts an answer option for the given question.
func SeedOption(tb testing.TB, tx *gorm.DB, questionID uuid.UUID, orderIndex int) *types.QuestionOption {
	tb.Helper()
	row := &types.QuestionOption{
		ID:         uuid.New(),
		QuestionID: questionID,
		OptionText: fmt.Sprintf("option %d", orderIndex),
		OrderIndex: orderIndex,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed option: %v", err)
	}
	return row
}

// SeedScoring attaches a scoring row to an option.
func SeedScoring(tb testing.TB, tx *gorm.DB, optionID uuid.UUID, sign string, score int) *types.ZodiacScoring {
	tb.Helper()
	row := &types.ZodiacScoring{
		ID:               uuid.New(),
		QuestionOptionID: optionID,
		ZodiacSign:       sign,
		ScoreValue:       score,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed scoring: %v", err)
	}
	return row
}

// SeedSession inserts a session created at the given time.
func SeedSession(tb testing.TB, tx *gorm.DB, sessionID string, createdAt time.Time) *types.UserSession {
	tb.Helper()
	row := &types.UserSession{
		ID:           uuid.New(),
		SessionID:    sessionID,
		ProgressData: []byte(`{}`),
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	if !createdAt.IsZero() {
		if err := tx.Model(&types.UserSession{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]any{"created_at": createdAt, "updated_at": createdAt}).Error; err != nil {
			tb.Fatalf("backdate session: %v", err)
		}
		row.CreatedAt = createdAt
	}
	return row
}

// SeedResponse records an answer for the (session, question) pair.
func SeedResponse(tb testing.TB, tx *gorm.DB, sessionID string, questionID, optionID uuid.UUID, answeredAt time.Time) *types.UserResponse {
	tb.Helper()
	row := &types.UserResponse{
		ID:               uuid.New(),
		SessionID:        sessionID,
		QuestionID:       questionID,
		SelectedOptionID: optionID,
		AnsweredAt:       answeredAt,
	}
	if row.AnsweredAt.IsZero() {
		row.AnsweredAt = time.Now().UTC()
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed response: %v", err)
	}
	return row
}
