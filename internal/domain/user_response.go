package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        string          `gorm:"column:session_id;not null;index:idx_session_question,unique" json:"sessionId"`
	QuestionID       uuid.UUID       `gorm:"type:uuid;column:question_id;not null;index:idx_session_question,unique" json:"questionId"`
	Question         *Question       `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	SelectedOptionID uuid.UUID       `gorm:"type:uuid;column:selected_option_id;not null" json:"selectedOptionId"`
	SelectedOption   *QuestionOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:SelectedOptionID;references:ID" json:"selectedOption,omitempty"`
	AnsweredAt       time.Time       `gorm:"column:answered_at;not null;index" json:"answeredAt"`
}

func (UserResponse) TableName() string { return "user_responses" }

func (r *UserResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.AnsweredAt.IsZero() {
		r.AnsweredAt = time.Now().UTC()
	}
	return nil
}

// ResponseValidation carries the referential checks for one answer.
// AlreadyAnswered is informational only and never fails validation;
// the caller decides between create and upsert.
type ResponseValidation struct {
	IsValid                 bool   `json:"isValid"`
	SessionExists           bool   `json:"sessionExists"`
	QuestionExists          bool   `json:"questionExists"`
	OptionExists            bool   `json:"optionExists"`
	OptionBelongsToQuestion bool   `json:"optionBelongsToQuestion"`
	AlreadyAnswered         bool   `json:"alreadyAnswered"`
	Message                 string `json:"message,omitempty"`
}

// ResponseStats aggregates a session's answers by category and by
// zodiac sign (summed score points, only signs actually scored).
type ResponseStats struct {
	SessionID             string            `json:"sessionId"`
	TotalResponses        int               `json:"totalResponses"`
	ResponsesByCategory   map[uuid.UUID]int `json:"responsesByCategory"`
	ResponsesByZodiacSign map[string]int    `json:"responsesByZodiacSign"`
	AverageResponseTime   *float64          `json:"averageResponseTime,omitempty"`
	CompletionRate        int               `json:"completionRate"`
}

// CompletionProgress reports how far a session has advanced through
// the full question set.
type CompletionProgress struct {
	Completed    int        `json:"completed"`
	Total        int        `json:"total"`
	Percentage   int        `json:"percentage"`
	NextQuestion *uuid.UUID `json:"nextQuestion,omitempty"`
}

// ZodiacResult is the aggregate prediction for one session.
type ZodiacResult struct {
	SessionID     string         `json:"sessionId"`
	PredictedSign string         `json:"predictedSign"`
	Scores        map[string]int `json:"scores"`
	Confidence    int            `json:"confidence"`
}

// ScoringStats describes the stored scoring table as a whole.
type ScoringStats struct {
	TotalEntries        int                `json:"totalEntries"`
	SignDistribution    map[string]int     `json:"signDistribution"`
	AverageScorePerSign map[string]float64 `json:"averageScorePerSign"`
}
