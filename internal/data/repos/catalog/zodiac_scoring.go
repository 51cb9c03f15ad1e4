package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type ZodiacScoringRepo interface {
	Create(dbc dbctx.Context, entry *types.ZodiacScoring) (*types.ZodiacScoring, error)
	CreateBatch(dbc dbctx.Context, entries []*types.ZodiacScoring) ([]*types.ZodiacScoring, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ZodiacScoring, error)
	GetAll(dbc dbctx.Context) ([]*types.ZodiacScoring, error)
	GetByOption(dbc dbctx.Context, optionID uuid.UUID) ([]*types.ZodiacScoring, error)
	GetByOptions(dbc dbctx.Context, optionIDs []uuid.UUID) ([]*types.ZodiacScoring, error)
	GetBySign(dbc dbctx.Context, sign string) ([]*types.ZodiacScoring, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type zodiacScoringRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewZodiacScoringRepo(db *gorm.DB, baseLog *logger.Logger) ZodiacScoringRepo {
	return &zodiacScoringRepo{db: db, log: baseLog.With("repo", "ZodiacScoringRepo")}
}

func (r *zodiacScoringRepo) Create(dbc dbctx.Context, entry *types.ZodiacScoring) (*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *zodiacScoringRepo) CreateBatch(dbc dbctx.Context, entries []*types.ZodiacScoring) ([]*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(entries) == 0 {
		return []*types.ZodiacScoring{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *zodiacScoringRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ZodiacScoring
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

func (r *zodiacScoringRepo) GetAll(dbc dbctx.Context) ([]*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ZodiacScoring
	if err := t.WithContext(dbc.Ctx).
		Order("zodiac_sign ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *zodiacScoringRepo) GetByOption(dbc dbctx.Context, optionID uuid.UUID) ([]*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ZodiacScoring
	if optionID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("question_option_id = ?", optionID).
		Order("score_value DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *zodiacScoringRepo) GetByOptions(dbc dbctx.Context, optionIDs []uuid.UUID) ([]*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ZodiacScoring
	if len(optionIDs) == 0 {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("question_option_id IN ?", optionIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *zodiacScoringRepo) GetBySign(dbc dbctx.Context, sign string) ([]*types.ZodiacScoring, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ZodiacScoring
	if sign == "" {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("zodiac_sign = ?", sign).
		Order("score_value DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *zodiacScoringRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.ZodiacScoring{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *zodiacScoringRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.ZodiacScoring{}).Error
}
