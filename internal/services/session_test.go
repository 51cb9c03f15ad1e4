package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/starsignlabs/zodiac-backend/internal/data/repos"
	"github.com/starsignlabs/zodiac-backend/internal/data/repos/testutil"
	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
)

func newSessionService(t *testing.T, tx *gorm.DB) (SessionService, dbctx.Context) {
	t.Helper()
	log := testutil.Logger(t)
	sessions := repos.NewSessionRepo(tx, log)
	responses := repos.NewResponseRepo(tx, log)
	svc := NewSessionService(tx, log, DefaultSurveyConfig(), sessions, responses)
	return svc, dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func TestGenerateSessionIDFormat(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newSessionService(t, tx)

	pattern := regexp.MustCompile(`^session_[0-9a-z]+_[0-9a-z]+$`)
	id := svc.GenerateSessionID()
	if !pattern.MatchString(id) {
		t.Fatalf("unexpected session id format: %q", id)
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newSessionService(t, tx)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := svc.GenerateSessionID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate session id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestCreateAndGetSession(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	ip := "203.0.113.9"
	created, err := svc.Create(dbc, CreateSessionInput{IPAddress: &ip})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("expected generated session id")
	}

	got, err := svc.GetBySessionID(dbc, created.SessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.IPAddress == nil || *got.IPAddress != ip {
		t.Fatalf("ip address not persisted: %+v", got.IPAddress)
	}

	missing, err := svc.GetBySessionID(dbc, "session_nope_nope")
	if err != nil {
		t.Fatalf("get missing session: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing session, got %+v", missing)
	}
}

func TestUpdateProgressShallowMerge(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	created, err := svc.Create(dbc, CreateSessionInput{
		ProgressData: json.RawMessage(`{"totalQuestions":16,"currentQuestionIndex":0}`),
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	idx := 3
	updated, err := svc.UpdateProgress(dbc, created.SessionID, types.SessionProgress{
		CurrentQuestionIndex: &idx,
	})
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}

	var progress map[string]any
	if err := json.Unmarshal(updated.ProgressData, &progress); err != nil {
		t.Fatalf("unmarshal progress: %v", err)
	}
	if got := progress["currentQuestionIndex"]; got != float64(3) {
		t.Fatalf("patched key not applied: %v", got)
	}
	if got := progress["totalQuestions"]; got != float64(16) {
		t.Fatalf("unpatched key lost: %v", got)
	}
	if _, ok := progress["lastActivityAt"]; !ok {
		t.Fatal("lastActivityAt not stamped")
	}
}

func TestUpdateProgressMissingSession(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	_, err := svc.UpdateProgress(dbc, "session_missing", types.SessionProgress{})
	if !types.IsCode(err, types.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestValidateSession(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	fresh, err := svc.Create(dbc, CreateSessionInput{})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	v, err := svc.Validate(dbc, fresh.SessionID)
	if err != nil {
		t.Fatalf("validate fresh: %v", err)
	}
	if !v.IsValid || !v.Exists || v.IsExpired || !v.CanContinue {
		t.Fatalf("fresh session should be valid and continuable: %+v", v)
	}

	expired := testutil.SeedSession(t, tx, "session_old_1", time.Now().Add(-25*time.Hour))
	v, err = svc.Validate(dbc, expired.SessionID)
	if err != nil {
		t.Fatalf("validate expired: %v", err)
	}
	if v.IsValid || !v.Exists || !v.IsExpired || v.CanContinue {
		t.Fatalf("expired session should be invalid: %+v", v)
	}
	if v.Message != "Session has expired" {
		t.Fatalf("unexpected message: %q", v.Message)
	}

	v, err = svc.Validate(dbc, "session_ghost")
	if err != nil {
		t.Fatalf("validate missing: %v", err)
	}
	if v.Exists || v.IsValid || v.CanContinue {
		t.Fatalf("missing session should not validate: %+v", v)
	}
	if v.Message != "Session not found" {
		t.Fatalf("unexpected message: %q", v.Message)
	}
}

func TestSessionStatsCompletionPercentage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	cat := testutil.SeedCategory(t, tx, 1)
	q := testutil.SeedQuestion(t, tx, cat.ID, 1)
	opt := testutil.SeedOption(t, tx, q.ID, 1)
	sess := testutil.SeedSession(t, tx, "session_stats_1", time.Now())
	testutil.SeedResponse(t, tx, sess.SessionID, q.ID, opt.ID, time.Now())

	stats, err := svc.Stats(dbc, sess.SessionID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalResponses != 1 {
		t.Fatalf("expected 1 response, got %d", stats.TotalResponses)
	}
	// 1 of 16 rounds to 6.
	if stats.CompletionPercentage != 6 {
		t.Fatalf("expected 6%%, got %d", stats.CompletionPercentage)
	}
	if stats.IsCompleted {
		t.Fatal("1 of 16 must not be completed")
	}
}

func TestListSessionsPagination(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		testutil.SeedSession(t, tx, fmt.Sprintf("session_page_%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page2, err := svc.List(dbc, 2, 3)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if page2.Total != 5 {
		t.Fatalf("expected total 5, got %d", page2.Total)
	}
	if len(page2.Sessions) != 2 {
		t.Fatalf("expected 2 sessions on page 2, got %d", len(page2.Sessions))
	}
	// Newest-first: page 2 of limit 3 holds the two oldest.
	if page2.Sessions[0].SessionID != "session_page_1" || page2.Sessions[1].SessionID != "session_page_0" {
		t.Fatalf("unexpected page 2 order: %s, %s", page2.Sessions[0].SessionID, page2.Sessions[1].SessionID)
	}

	capped, err := svc.List(dbc, 1, 9999)
	if err != nil {
		t.Fatalf("list capped: %v", err)
	}
	if capped.Limit != DefaultSurveyConfig().MaxPageSize {
		t.Fatalf("limit not clamped: %d", capped.Limit)
	}
}

func TestCleanupExpiredIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	testutil.SeedSession(t, tx, "session_stale_1", time.Now().Add(-30*time.Hour))
	testutil.SeedSession(t, tx, "session_stale_2", time.Now().Add(-26*time.Hour))
	keeper := testutil.SeedSession(t, tx, "session_live_1", time.Now())

	removed, err := svc.CleanupExpired(dbc)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	removed, err = svc.CleanupExpired(dbc)
	if err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
	if removed != 0 {
		t.Fatalf("second cleanup should remove nothing, got %d", removed)
	}

	still, err := svc.GetBySessionID(dbc, keeper.SessionID)
	if err != nil {
		t.Fatalf("get keeper: %v", err)
	}
	if still == nil {
		t.Fatal("live session was removed by cleanup")
	}
}

func TestDeleteSessionIsNoOpWhenMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, dbc := newSessionService(t, tx)

	if err := svc.Delete(dbc, "session_never_existed"); err != nil {
		t.Fatalf("delete missing session should not error: %v", err)
	}

	sess := testutil.SeedSession(t, tx, "session_doomed", time.Now())
	if err := svc.Delete(dbc, sess.SessionID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := svc.GetBySessionID(dbc, sess.SessionID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Fatal("session still present after delete")
	}
}
