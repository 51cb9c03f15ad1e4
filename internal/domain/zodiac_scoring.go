package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ZodiacScoring struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionOptionID uuid.UUID       `gorm:"type:uuid;column:question_option_id;not null;index" json:"questionOptionId"`
	QuestionOption   *QuestionOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionOptionID;references:ID" json:"questionOption,omitempty"`
	ZodiacSign       string          `gorm:"column:zodiac_sign;not null;index" json:"zodiacSign"`
	ScoreValue       int             `gorm:"column:score_value;not null" json:"scoreValue"`
}

func (ZodiacScoring) TableName() string { return "zodiac_scoring" }

func (z *ZodiacScoring) BeforeCreate(tx *gorm.DB) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return nil
}
