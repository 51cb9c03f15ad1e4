package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserSession struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    string         `gorm:"column:session_id;uniqueIndex;not null" json:"sessionId"`
	IPAddress    *string        `gorm:"column:ip_address" json:"ipAddress,omitempty"`
	UserAgent    *string        `gorm:"column:user_agent" json:"userAgent,omitempty"`
	ProgressData datatypes.JSON `gorm:"type:jsonb;column:progress_data" json:"progressData"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null;index" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;not null" json:"updatedAt"`

	Responses []UserResponse `gorm:"foreignKey:SessionID;references:SessionID" json:"responses,omitempty"`
}

func (UserSession) TableName() string { return "user_sessions" }

func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SessionProgress is the schema the free-form progress_data blob is
// expected to follow. Fields are optional; PATCH bodies bind to this
// shape and are shallow-merged over the stored object.
type SessionProgress struct {
	CurrentCategoryID    *uuid.UUID  `json:"currentCategoryId,omitempty"`
	CurrentQuestionIndex *int        `json:"currentQuestionIndex,omitempty"`
	TotalQuestions       *int        `json:"totalQuestions,omitempty"`
	CompletedQuestions   []uuid.UUID `json:"completedQuestions,omitempty"`
	StartedAt            *time.Time  `json:"startedAt,omitempty"`
	LastActivityAt       *time.Time  `json:"lastActivityAt,omitempty"`
}

// SessionValidation reports whether a session exists, is expired, and
// can still be resumed.
type SessionValidation struct {
	IsValid     bool   `json:"isValid"`
	Exists      bool   `json:"exists"`
	IsExpired   bool   `json:"isExpired"`
	CanContinue bool   `json:"canContinue"`
	Message     string `json:"message,omitempty"`
}

// SessionStats summarizes a session's recorded answers.
type SessionStats struct {
	SessionID            string     `json:"sessionId"`
	TotalResponses       int        `json:"totalResponses"`
	CompletionPercentage int        `json:"completionPercentage"`
	IsCompleted          bool       `json:"isCompleted"`
	TimeSpentSeconds     *int       `json:"timeSpentSeconds,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}
