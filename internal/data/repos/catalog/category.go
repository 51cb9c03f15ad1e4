package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, category *types.Category) (*types.Category, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Category, error)
	GetAll(dbc dbctx.Context) ([]*types.Category, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, category *types.Category) (*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Category
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

func (r *categoryRepo) GetAll(dbc dbctx.Context) ([]*types.Category, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Category
	if err := t.WithContext(dbc.Ctx).
		Order("order_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *categoryRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Category{}).Error
}
