package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/starsignlabs/zodiac-backend/internal/domain"
	"github.com/starsignlabs/zodiac-backend/internal/http/response"
	"github.com/starsignlabs/zodiac-backend/internal/platform/dbctx"
	"github.com/starsignlabs/zodiac-backend/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req services.CreateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		// Empty body starts a fresh anonymous session.
		req = services.CreateSessionInput{}
	}
	if req.IPAddress == nil {
		ip := c.ClientIP()
		req.IPAddress = &ip
	}
	if req.UserAgent == nil {
		if ua := c.Request.UserAgent(); ua != "" {
			req.UserAgent = &ua
		}
	}
	session, err := h.sessions.Create(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.GetBySessionID(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if session == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("Session not found"))
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// GET /api/sessions/:id/details
func (h *SessionHandler) GetDetails(c *gin.Context) {
	session, err := h.sessions.GetWithResponses(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if session == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("Session not found"))
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// PATCH /api/sessions/:id/progress
func (h *SessionHandler) PatchProgress(c *gin.Context) {
	var req struct {
		ProgressData types.SessionProgress `json:"progressData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := h.sessions.UpdateProgress(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), req.ProgressData)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// GET /api/sessions/:id/stats
func (h *SessionHandler) Stats(c *gin.Context) {
	stats, err := h.sessions.Stats(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /api/sessions/:id/validate
func (h *SessionHandler) Validate(c *gin.Context) {
	validation, err := h.sessions.Validate(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"validation": validation})
}

// GET /api/sessions?page=&limit=
func (h *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	list, err := h.sessions.List(dbctx.Context{Ctx: c.Request.Context()}, page, limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, list)
}

// DELETE /api/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, nil, "Session deleted")
}

// POST /api/sessions/cleanup/expired
func (h *SessionHandler) CleanupExpired(c *gin.Context) {
	removed, err := h.sessions.CleanupExpired(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOKMessage(c, gin.H{"removed": removed}, "Expired sessions removed")
}
