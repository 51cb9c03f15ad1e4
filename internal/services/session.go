package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/storeerr"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/platform/logger"
)

type CreateSessionInput struct {
	SessionID    string          `json:"sessionId"`
	IPAddress    *string         `json:"ipAddress"`
	UserAgent    *string         `json:"userAgent"`
	ProgressData json.RawMessage `json:"progressData"`
}

type SessionList struct {
	Sessions []*types.UserSession `json:"sessions"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}

type SessionService interface {
	GenerateSessionID() string
	Create(dbc dbctx.Context, input CreateSessionInput) (*types.UserSession, error)
	GetBySessionID(dbc dbctx.Context, sessionID string) (*types.UserSession, error)
	GetWithResponses(dbc dbctx.Context, sessionID string) (*types.UserSession, error)
	UpdateProgress(dbc dbctx.Context, sessionID string, patch types.SessionProgress) (*types.UserSession, error)
	Validate(dbc dbctx.Context, sessionID string) (*types.SessionValidation, error)
	Stats(dbc dbctx.Context, sessionID string) (*types.SessionStats, error)
	List(dbc dbctx.Context, page, limit int) (*SessionList, error)
	Delete(dbc dbctx.Context, sessionID string) error
	CleanupExpired(dbc dbctx.Context) (int64, error)
	StartCleanupWorker(ctx context.Context)
}

type sessionService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       SurveyConfig
	sessions  repos.SessionRepo
	responses repos.ResponseRepo
}

func NewSessionService(db *gorm.DB, baseLog *logger.Logger, cfg SurveyConfig, sessions repos.SessionRepo, responses repos.ResponseRepo) SessionService {
	return &sessionService{
		db:        db,
		log:       baseLog.With("service", "SessionService"),
		cfg:       cfg,
		sessions:  sessions,
		responses: responses,
	}
}

// GenerateSessionID produces an opaque identifier of the form
// session_<base36 millis>_<base36 random>. The timestamp keeps IDs
// roughly sortable; the random tail decorrelates same-millisecond
// collisions.
func (s *sessionService) GenerateSessionID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("%s_%s_%s", s.cfg.SessionIDPrefix, ts, randomBase36(13))
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36Alphabet[rand.IntN(len(base36Alphabet))])
	}
	return b.String()
}

func (s *sessionService) Create(dbc dbctx.Context, input CreateSessionInput) (*types.UserSession, error) {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		sessionID = s.GenerateSessionID()
	}
	progress := input.ProgressData
	if len(progress) == 0 {
		progress = json.RawMessage(`{}`)
	}
	row := &types.UserSession{
		SessionID:    sessionID,
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		ProgressData: []byte(progress),
	}
	created, err := s.sessions.Create(dbc, row)
	if err != nil {
		return nil, storeerr.Map("session.create", err)
	}
	return created, nil
}

// GetBySessionID returns (nil, nil) when no session exists: absence is
// expected, not an error.
func (s *sessionService) GetBySessionID(dbc dbctx.Context, sessionID string) (*types.UserSession, error) {
	row, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.get", err)
	}
	return row, nil
}

func (s *sessionService) GetWithResponses(dbc dbctx.Context, sessionID string) (*types.UserSession, error) {
	row, err := s.sessions.GetWithResponses(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.get_with_responses", err)
	}
	return row, nil
}

// UpdateProgress shallow-merges the patch into the stored progress
// blob: patched keys overwrite, everything else is preserved. The
// lastActivityAt field is always stamped to the current time.
func (s *sessionService) UpdateProgress(dbc dbctx.Context, sessionID string, patch types.SessionProgress) (*types.UserSession, error) {
	existing, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.update_progress", err)
	}
	if existing == nil {
		return nil, types.NewError(types.CodeNotFound, "session.update_progress", "Session not found", nil)
	}

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, types.Wrap(types.CodeValidation, "session.update_progress", err)
	}
	merged, err := mergeJSONObjects(json.RawMessage(existing.ProgressData), patchJSON)
	if err != nil {
		return nil, types.Wrap(types.CodeValidation, "session.update_progress", err)
	}

	now := time.Now().UTC()
	var mergedObj map[string]any
	if err := json.Unmarshal(merged, &mergedObj); err != nil {
		return nil, types.Wrap(types.CodeValidation, "session.update_progress", err)
	}
	mergedObj["lastActivityAt"] = now.Format(time.RFC3339)
	final, err := json.Marshal(mergedObj)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, "session.update_progress", err)
	}

	updates := map[string]any{
		"progress_data": datatypes.JSON(final),
		"updated_at":    now,
	}
	if err := s.sessions.UpdateFields(dbc, sessionID, updates); err != nil {
		return nil, storeerr.Map("session.update_progress", err)
	}
	updated, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.update_progress", err)
	}
	return updated, nil
}

func (s *sessionService) Validate(dbc dbctx.Context, sessionID string) (*types.SessionValidation, error) {
	session, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.validate", err)
	}
	if session == nil {
		return &types.SessionValidation{
			IsValid:     false,
			Exists:      false,
			IsExpired:   false,
			CanContinue: false,
			Message:     "Session not found",
		}, nil
	}

	isExpired := time.Since(session.CreatedAt) > s.cfg.SessionExpiry

	stats, err := s.Stats(dbc, sessionID)
	if err != nil {
		return nil, err
	}

	v := &types.SessionValidation{
		IsValid:     !isExpired,
		Exists:      true,
		IsExpired:   isExpired,
		CanContinue: !isExpired && !stats.IsCompleted,
	}
	if isExpired {
		v.Message = "Session has expired"
	}
	return v, nil
}

func (s *sessionService) Stats(dbc dbctx.Context, sessionID string) (*types.SessionStats, error) {
	session, err := s.sessions.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.stats", err)
	}
	if session == nil {
		return nil, types.NewError(types.CodeNotFound, "session.stats", "Session not found", nil)
	}

	responses, err := s.responses.GetBySession(dbc, sessionID)
	if err != nil {
		return nil, storeerr.Map("session.stats", err)
	}

	total := len(responses)
	stats := &types.SessionStats{
		SessionID:            sessionID,
		TotalResponses:       total,
		CompletionPercentage: roundPercent(total, s.cfg.TotalQuestions),
		IsCompleted:          total >= s.cfg.TotalQuestions,
		CreatedAt:            session.CreatedAt,
	}

	if total > 0 {
		first := responses[0].AnsweredAt
		last := responses[total-1].AnsweredAt
		seconds := int(math.Round(last.Sub(first).Seconds()))
		stats.TimeSpentSeconds = &seconds
		if stats.IsCompleted {
			stats.CompletedAt = &last
		}
	}
	return stats, nil
}

// List pages newest-first; page is 1-indexed and limit is clamped to
// the configured maximum. Total is the unfiltered session count.
func (s *sessionService) List(dbc dbctx.Context, page, limit int) (*SessionList, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	offset := (page - 1) * limit

	var (
		sessions []*types.UserSession
		total    int64
	)

	if dbc.Tx != nil {
		// A single transaction cannot serve concurrent queries.
		var err error
		if sessions, err = s.sessions.List(dbc, offset, limit); err != nil {
			return nil, storeerr.Map("session.list", err)
		}
		if total, err = s.sessions.Count(dbc); err != nil {
			return nil, storeerr.Map("session.list", err)
		}
	} else {
		g, ctx := errgroup.WithContext(dbc.Ctx)
		g.Go(func() error {
			var err error
			sessions, err = s.sessions.List(dbctx.Context{Ctx: ctx}, offset, limit)
			return err
		})
		g.Go(func() error {
			var err error
			total, err = s.sessions.Count(dbctx.Context{Ctx: ctx})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, storeerr.Map("session.list", err)
		}
	}

	if sessions == nil {
		sessions = []*types.UserSession{}
	}
	return &SessionList{
		Sessions: sessions,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Delete is a no-op when the session does not exist.
func (s *sessionService) Delete(dbc dbctx.Context, sessionID string) error {
	if _, err := s.sessions.Delete(dbc, sessionID); err != nil {
		return storeerr.Map("session.delete", err)
	}
	return nil
}

func (s *sessionService) CleanupExpired(dbc dbctx.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.SessionExpiry)
	removed, err := s.sessions.DeleteExpired(dbc, cutoff)
	if err != nil {
		return 0, storeerr.Map("session.cleanup_expired", err)
	}
	if removed > 0 {
		s.log.Info("Cleaned up expired sessions", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// StartCleanupWorker purges expired sessions on a fixed interval until
// the context is cancelled.
func (s *sessionService) StartCleanupWorker(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.CleanupExpired(dbctx.Context{Ctx: ctx}); err != nil {
					s.log.Warn("Expired session cleanup failed", "error", err)
				}
			}
		}
	}()
}

// mergeJSONObjects shallow-merges patch over base: keys present in
// patch overwrite, keys absent from patch are preserved.
func mergeJSONObjects(base, patch json.RawMessage) (json.RawMessage, error) {
	var baseObj map[string]any
	if len(base) > 0 {
		if err := json.Unmarshal(base, &baseObj); err != nil {
			return nil, err
		}
	}
	if baseObj == nil {
		baseObj = map[string]any{}
	}

	var patchObj map[string]any
	if len(patch) > 0 {
		if err := json.Unmarshal(patch, &patchObj); err != nil {
			return nil, err
		}
	}
	for k, v := range patchObj {
		baseObj[k] = v
	}

	return json.Marshal(baseObj)
}

func roundPercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
