package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type QuestionOptionRepo interface {
	Create(dbc dbctx.Context, option *types.QuestionOption) (*types.QuestionOption, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuestionOption, error)
	GetByQuestion(dbc dbctx.Context, questionID uuid.UUID) ([]*types.QuestionOption, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type questionOptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionOptionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionOptionRepo {
	return &questionOptionRepo{db: db, log: baseLog.With("repo", "QuestionOptionRepo")}
}

func (r *questionOptionRepo) Create(dbc dbctx.Context, option *types.QuestionOption) (*types.QuestionOption, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(option).Error; err != nil {
		return nil, err
	}
	return option, nil
}

func (r *questionOptionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuestionOption, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.QuestionOption
	if err := t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *questionOptionRepo) GetByQuestion(dbc dbctx.Context, questionID uuid.UUID) ([]*types.QuestionOption, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.QuestionOption
	if questionID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("question_id = ?", questionID).
		Order("order_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionOptionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.QuestionOption{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *questionOptionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.QuestionOption{}).Error
}
