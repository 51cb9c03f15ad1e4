package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, question *types.Question) (*types.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	GetByIDWithOptions(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	GetAll(dbc dbctx.Context) ([]*types.Question, error)
	GetByCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]*types.Question, error)
	Count(dbc dbctx.Context) (int64, error)
	FirstUnanswered(dbc dbctx.Context, answeredIDs []uuid.UUID) (*types.Question, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(dbc dbctx.Context, question *types.Question) (*types.Question, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Question
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

func (r *questionRepo) GetByIDWithOptions(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Question
	if err := t.WithContext(dbc.Ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.order_index ASC")
		}).
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

func (r *questionRepo) GetAll(dbc dbctx.Context) ([]*types.Question, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Question
	if err := t.WithContext(dbc.Ctx).
		Order("order_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionRepo) GetByCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]*types.Question, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Question
	if categoryID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("category_id = ?", categoryID).
		Order("order_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Question{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FirstUnanswered returns the lowest order-index question whose ID is
// not in answeredIDs, or nil when every question has been answered.
func (r *questionRepo) FirstUnanswered(dbc dbctx.Context, answeredIDs []uuid.UUID) (*types.Question, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Question{})
	if len(answeredIDs) > 0 {
		q = q.Where("id NOT IN ?", answeredIDs)
	}
	var row types.Question
	if err := q.Order("order_index ASC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *questionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Question{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *questionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Question{}).Error
}
