package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionOption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;column:question_id;not null;index" json:"questionId"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	OptionText string    `gorm:"column:option_text;not null" json:"optionText"`
	OrderIndex int       `gorm:"column:order_index;not null" json:"orderIndex"`

	// Scoring rows are meaningless without their option.
	Scoring []ZodiacScoring `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionOptionID;references:ID" json:"scoring,omitempty"`
}

func (QuestionOption) TableName() string { return "question_options" }

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
