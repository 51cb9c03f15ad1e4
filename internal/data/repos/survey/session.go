package survey

import (
	"time"

	"gorm.io/gorm"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, session *types.UserSession) (*types.UserSession, error)
	GetBySessionID(dbc dbctx.Context, sessionID string) (*types.UserSession, error)
	GetWithResponses(dbc dbctx.Context, sessionID string) (*types.UserSession, error)
	UpdateFields(dbc dbctx.Context, sessionID string, updates map[string]any) error
	List(dbc dbctx.Context, offset, limit int) ([]*types.UserSession, error)
	Count(dbc dbctx.Context) (int64, error)
	Delete(dbc dbctx.Context, sessionID string) (int64, error)
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, session *types.UserSession) (*types.UserSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetBySessionID returns (nil, nil) for an unknown session: absence is
// a valid state, not an error.
func (r *sessionRepo) GetBySessionID(dbc dbctx.Context, sessionID string) (*types.UserSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" {
		return nil, nil
	}
	var row types.UserSession
	if err := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.SessionID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) GetWithResponses(dbc dbctx.Context, sessionID string) (*types.UserSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" {
		return nil, nil
	}
	var row types.UserSession
	if err := t.WithContext(dbc.Ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("user_responses.answered_at ASC")
		}).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.SessionID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, sessionID string, updates map[string]any) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" {
		return nil
	}
	if updates == nil {
		updates = map[string]any{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.UserSession{}).
		Where("session_id = ?", sessionID).
		Updates(updates).Error
}

func (r *sessionRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.UserSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.UserSession
	if err := t.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.UserSession{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sessionRepo) Delete(dbc dbctx.Context, sessionID string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sessionID == "" {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.UserSession{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteExpired removes every session created before cutoff and
// reports the number of rows removed.
func (r *sessionRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("created_at < ?", cutoff).
		Delete(&types.UserSession{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
