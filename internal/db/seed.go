package db

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Name        string         `yaml:"name"`
	Description *string        `yaml:"description"`
	OrderIndex  int            `yaml:"orderIndex"`
	IconName    *string        `yaml:"iconName"`
	Questions   []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	QuestionText string       `yaml:"questionText"`
	OrderIndex   int          `yaml:"orderIndex"`
	Options      []seedOption `yaml:"options"`
}

type seedOption struct {
	OptionText string         `yaml:"optionText"`
	OrderIndex int            `yaml:"orderIndex"`
	Scoring    map[string]int `yaml:"scoring"`
}

// Seed loads the survey catalog from a YAML file. Categories are
// matched by name, so running it again against a seeded database is a
// no-op.
func Seed(db *gorm.DB, log *logger.Logger, path string) error {
	seedLog := log.With("component", "Seed")

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range file.Categories {
			var existing types.Category
			if err := tx.Where("name = ?", sc.Name).Limit(1).Find(&existing).Error; err != nil {
				return err
			}
			if existing.Name != "" {
				seedLog.Debug("Category already seeded", "name", sc.Name)
				continue
			}

			category := &types.Category{
				Name:        sc.Name,
				Description: sc.Description,
				OrderIndex:  sc.OrderIndex,
				IconName:    sc.IconName,
			}
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", sc.Name, err)
			}

			for _, sq := range sc.Questions {
				question := &types.Question{
					CategoryID:   category.ID,
					QuestionText: sq.QuestionText,
					OrderIndex:   sq.OrderIndex,
				}
				if err := tx.Create(question).Error; err != nil {
					return fmt.Errorf("seed question %q: %w", sq.QuestionText, err)
				}

				for _, so := range sq.Options {
					option := &types.QuestionOption{
						QuestionID: question.ID,
						OptionText: so.OptionText,
						OrderIndex: so.OrderIndex,
					}
					if err := tx.Create(option).Error; err != nil {
						return fmt.Errorf("seed option %q: %w", so.OptionText, err)
					}

					for sign, score := range so.Scoring {
						if !types.IsZodiacSign(sign) {
							return fmt.Errorf("seed option %q: unknown sign %q", so.OptionText, sign)
						}
						entry := &types.ZodiacScoring{
							QuestionOptionID: option.ID,
							ZodiacSign:       sign,
							ScoreValue:       score,
						}
						if err := tx.Create(entry).Error; err != nil {
							return fmt.Errorf("seed scoring for %q: %w", so.OptionText, err)
						}
					}
				}
			}
			seedLog.Info("Seeded category", "name", sc.Name, "questions", len(sc.Questions))
		}
		return nil
	})
}
