package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	OrderIndex  int       `gorm:"column:order_index;not null;index" json:"orderIndex"`
	IconName    *string   `gorm:"column:icon_name" json:"iconName,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"createdAt"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"questions,omitempty"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
