package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID   uuid.UUID `gorm:"type:uuid;column:category_id;not null;index" json:"categoryId"`
	Category     *Category `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	QuestionText string    `gorm:"column:question_text;not null" json:"questionText"`
	OrderIndex   int       `gorm:"column:order_index;not null;index" json:"orderIndex"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"createdAt"`

	Options []QuestionOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"options,omitempty"`
}

func (Question) TableName() string { return "questions" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
