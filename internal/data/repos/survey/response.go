package survey

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type ResponseRepo interface {
	Create(dbc dbctx.Context, response *types.UserResponse) (*types.UserResponse, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserResponse, error)
	GetBySession(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error)
	GetBySessionAndQuestion(dbc dbctx.Context, sessionID string, questionID uuid.UUID) (*types.UserResponse, error)
	GetDetailed(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error)
	CountBySession(dbc dbctx.Context, sessionID string) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	DeleteBySession(dbc dbctx.Context, sessionID string) (int64, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (r *responseRepo) Create(dbc dbctx.Context, response *types.UserResponse) (*types.UserResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(response).Error; err != nil {
		return nil, err
	}
	return response, nil
}

func (r *responseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.UserResponse
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

func (r *responseRepo) GetBySession(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.UserResponse
	if sessionID == "" {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("answered_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetBySessionAndQuestion returns (nil, nil) when the pair has no
// recorded answer yet.
func (r *responseRepo) GetBySessionAndQuestion(dbc dbctx.Context, sessionID string, questionID uuid.UUID) (*types.UserResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" || questionID == uuid.Nil {
		return nil, nil
	}
	var row types.UserResponse
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetDetailed loads each response together with its question and the
// selected option's scoring rows.
func (r *responseRepo) GetDetailed(dbc dbctx.Context, sessionID string) ([]*types.UserResponse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.UserResponse
	if sessionID == "" {
		return rows, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Preload("Question").
		Preload("SelectedOption").
		Preload("SelectedOption.Scoring").
		Where("session_id = ?", sessionID).
		Order("answered_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *responseRepo) CountBySession(dbc dbctx.Context, sessionID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.UserResponse{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *responseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.UserResponse{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *responseRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.UserResponse{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *responseRepo) DeleteBySession(dbc dbctx.Context, sessionID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.UserResponse{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
